package detector

import "regexp"

// Rule is one line-level pattern with remediation guidance. FixExample
// carries a before/after snippet for rules where a concrete rewrite exists.
type Rule struct {
	ID         string
	Pattern    *regexp.Regexp
	Suggestion string
	Priority   string
	FixExample string
}

var pythonRules = []Rule{
	{
		ID:         "OPT-IO-001",
		Pattern:    regexp.MustCompile(`(with\s+)?open\s*\([^)]*['"]w[b+]?['"]`),
		Suggestion: "Use `priority_core.file_ops.atomic_open` to prevent corruption. Standard `open('w')` truncates immediately.",
		Priority:   "HIGH",
		FixExample: "BEFORE: with open(path, \"w\") as f:\n    f.write(data)\nAFTER:  from priority_core.file_ops import atomic_open\nwith atomic_open(path, \"w\") as f:\n    f.write(data)",
	},
	{
		ID:         "OPT-RES-001",
		Pattern:    regexp.MustCompile(`time\.sleep\s*\(\s*[0-9]+`),
		Suggestion: "Hardcoded blocking sleep detected. Use `asyncio.sleep` or `priority_core.resilience.BackoffStrategy`.",
		Priority:   "MEDIUM",
		FixExample: "BEFORE: time.sleep(5)\nAFTER:  await asyncio.sleep(5)  # For async code\n# OR use BackoffStrategy for retry logic",
	},
	{
		ID:         "OPT-RES-002",
		Pattern:    regexp.MustCompile(`(requests|httpx|aiohttp)\.(get|post|put|delete)`),
		Suggestion: "Unprotected external call. Wrap in `priority_core.resilience.CircuitBreaker` to handle timeouts/failures.",
		Priority:   "HIGH",
		FixExample: "BEFORE: response = requests.get(url)\nAFTER:  from priority_core.resilience import CircuitBreaker\ncb = CircuitBreaker()\nresponse = await cb.call(requests.get, url)",
	},
	{
		ID:         "OPT-RES-003",
		Pattern:    regexp.MustCompile(`asyncio\.create_task\s*\(`),
		Suggestion: "Fire-and-forget task? Ensure it's tracked (e.g. `BackgroundTasks` or `TaskGroup`) to prevent swallowing exceptions.",
		Priority:   "LOW",
		FixExample: "BEFORE: asyncio.create_task(do_work())\nAFTER:  async with asyncio.TaskGroup() as tg:\n    tg.create_task(do_work())",
	},
	{
		ID:         "OPT-MEM-001",
		Pattern:    regexp.MustCompile(`(_?cache|_?memo|_?registry)\s*=\s*(\{\}|dict\(\))`),
		Suggestion: "Unbounded dictionary cache. Upgrade to `priority_core.smart_cache.ErrorInducedEvictionCache` to prevent OOM.",
		Priority:   "MEDIUM",
		FixExample: "BEFORE: cache = {}\nAFTER:  from priority_core.smart_cache import ErrorInducedEvictionCache\ncache = ErrorInducedEvictionCache(max_size=1000)",
	},
	{
		ID:         "OPT-PERF-001",
		Pattern:    regexp.MustCompile(`\s+\+=\s+.*(str|f["'])`),
		Suggestion: "String concatenation in loop? Use `list.append` and `''.join()` for O(n) performance.",
		Priority:   "LOW",
		FixExample: "BEFORE:\nresult = \"\"\nfor s in items:\n    result += s\nAFTER:\nparts = []\nfor s in items:\n    parts.append(s)\nresult = \"\".join(parts)",
	},
	{
		ID:         "OPT-OBS-001",
		Pattern:    regexp.MustCompile(`^\s*print\s*\(`),
		Suggestion: "Blocking `print` call. Use `logger.info/debug` for non-blocking async logging and structured output.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-OBS-002",
		Pattern:    regexp.MustCompile(`except\s+Exception\s*:`),
		Suggestion: "Broad exception catch. Catch specific errors or ensure you log `exc_info=True`.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-PY12-001",
		Pattern:    regexp.MustCompile(`(['"].*?['"]\s*%\s*\(|['"].*?['"]\s*\.format\()`),
		Suggestion: "Legacy string formatting detected. Use f-strings for better performance and readability.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-PY12-002",
		Pattern:    regexp.MustCompile(`\.append\(`),
		Suggestion: "Loop growing a list? In Python 3.12, List Comprehensions are inlined and significantly faster.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-PY12-003",
		Pattern:    regexp.MustCompile(`type\(.+?\)\s*==\s*.+?`),
		Suggestion: "Type checking with `type() ==` is slow and brittle. Use `isinstance()`.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-PY12-004",
		Pattern:    regexp.MustCompile(`isinstance\(.+?\)\s+or\s+isinstance\(.+?\)`),
		Suggestion: "Multiple `isinstance` checks found. Use `isinstance(obj, (A, B))` tuple check for faster execution.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-PY14-001",
		Pattern:    regexp.MustCompile(`import\s+multiprocessing`),
		Suggestion: "Python 3.14+ Sub-interpreters (PEP 734) offer lighter true parallelism than `multiprocessing`. Consider `interpreters` module.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-PY14-002",
		Pattern:    regexp.MustCompile(`template\.render\(`),
		Suggestion: "Python 3.14+ 't-strings' (PEP 750) provide safer, faster, native templating than external renderers.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-PY14-003",
		Pattern:    regexp.MustCompile(`uuid\.uuid(3|4|5)\(\)`),
		Suggestion: "Python 3.14 optimizes UUID generation (40% faster). Ensure you are on the latest runtime.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-PY-002",
		Pattern:    regexp.MustCompile(`run_in_executor\s*\(`),
		Suggestion: "Legacy executor pattern. Use `asyncio.to_thread()` (Python 3.9+) for cleaner blocking call offload.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-PY-003",
		Pattern:    regexp.MustCompile(`bytes\([^)]+\)`),
		Suggestion: "Copying bytes data? Use `memoryview` for zero-copy access to raw buffer data.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-PERF-PY-001",
		Pattern:    regexp.MustCompile(`for\s+\w+\s+in\s+list\(`),
		Suggestion: "Unnecessary list() on iterable. Iterating directly is faster.",
		Priority:   "MEDIUM",
		FixExample: "BEFORE: for x in list(items):\nAFTER:  for x in items:",
	},
	{
		ID:         "OPT-PERF-PY-002",
		Pattern:    regexp.MustCompile(`for\s+_,\s*\w+\s+in\s+\w+\.items\(\)`),
		Suggestion: "Discarding key in .items() loop. Use `.values()` instead (10-15% faster).",
		Priority:   "MEDIUM",
		FixExample: "BEFORE: for _, value in data.items():\nAFTER:  for value in data.values():",
	},
	{
		ID:         "OPT-PERF-PY-003",
		Pattern:    regexp.MustCompile(`for\s+\w+,\s*_\s+in\s+\w+\.items\(\)`),
		Suggestion: "Discarding value in .items() loop. Use `.keys()` instead (10-15% faster).",
		Priority:   "MEDIUM",
		FixExample: "BEFORE: for key, _ in data.items():\nAFTER:  for key in data.keys():  # or just: for key in data:",
	},
	{
		ID:         "OPT-PERF-PY-006",
		Pattern:    regexp.MustCompile(`=\s*\[\s*"[^"]+"\s*,`),
		Suggestion: "Non-mutated list literal? Use tuple instead for faster construction and indexing.",
		Priority:   "LOW",
		FixExample: "BEFORE: colors = [\"red\", \"green\", \"blue\"]\nAFTER:  colors = (\"red\", \"green\", \"blue\")",
	},
}

var typescriptRules = []Rule{
	{
		ID:         "OPT-TS-001",
		Pattern:    regexp.MustCompile(`console\.log\(`),
		Suggestion: "Console log in production code. Remove or use a proper logger.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-TS-002",
		Pattern:    regexp.MustCompile(`:\s*any`),
		Suggestion: "Usage of 'any' type defeats TypeScript benefits. Define a strict interface.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-TS-003",
		Pattern:    regexp.MustCompile(`<img\s+`),
		Suggestion: "Standard <img> tag detected. Use Next.js `<Image />` for automatic optimization/lazy-loading.",
		Priority:   "HIGH",
	},
	{
		ID:         "OPT-TS-004",
		Pattern:    regexp.MustCompile(`useEffect\(\s*\(\)\s*=>\s*\{.*\}\)\s*$`),
		Suggestion: "useEffect missing dependency array. This runs on EVERY render. Pass `[]` or explicit deps.",
		Priority:   "HIGH",
	},
	{
		ID:         "OPT-NODE-001",
		Pattern:    regexp.MustCompile(`"husky":\s*"\^[0-4]\.`),
		Suggestion: "Legacy Husky detected. Upgrade to Husky v9+ for 1ms overhead and native git hooks.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-NODE-002",
		Pattern:    regexp.MustCompile(`"lint-staged":\s*\{`),
		Suggestion: "Ensure `lint-staged` v16+ is used with `--hide-unstaged` for cleaner commits.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-NODE-003",
		Pattern:    regexp.MustCompile(`npm\s+deprecate`),
		Suggestion: "npm 11+ offers `npm undeprecate` and better deprecation handling. Modernize your scripts.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-CSS-001",
		Pattern:    regexp.MustCompile(`stylelint-config-standard-scss`),
		Suggestion: "Ensure Stylelint v16+ is used. It fixes false positives and supports modern CSS syntax natively.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-TS-001",
		Pattern:    regexp.MustCompile(`class\s+\w+\s+extends\s+(React\.)?Component`),
		Suggestion: "Class components are legacy. Use functional components with hooks for better performance and smaller bundles.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-TS-002",
		Pattern:    regexp.MustCompile(`getServerSideProps|getStaticProps`),
		Suggestion: "Legacy data fetching. Next.js 15+ Server Components with `async` are faster and simpler.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-TS-003",
		Pattern:    regexp.MustCompile(`JSON\.(parse|stringify)`),
		Suggestion: "Large JSON operations? Consider `fast-json-stringify` for 2-5x speedup.",
		Priority:   "LOW",
	},
}

var goRules = []Rule{
	{
		ID:         "OPT-GO-001",
		Pattern:    regexp.MustCompile(`encoding/json`),
		Suggestion: "Legacy `encoding/json` detected. Go 1.25+ `encoding/json/v2` is 3-10x faster and zero-alloc.",
		Priority:   "HIGH",
	},
	{
		ID:         "OPT-GO-002",
		Pattern:    regexp.MustCompile(`GOMAXPROCS`),
		Suggestion: "Manual GOMAXPROCS tuning? Go 1.25 is container-aware by default. Remove manual overrides.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-GO-001",
		Pattern:    regexp.MustCompile(`"\s*\+\s*"`),
		Suggestion: "String concatenation with `+`. Use `strings.Builder` for O(n) performance in loops.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-GO-002",
		Pattern:    regexp.MustCompile(`regexp\.Compile\(`),
		Suggestion: "Compile regex inside function? Move to package level `var` for reuse and avoid re-compilation.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-GO-003",
		Pattern:    regexp.MustCompile(`sync\.Mutex`),
		Suggestion: "Mutex for short critical sections? Consider `sync/atomic` for lock-free performance.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-GO-004",
		Pattern:    regexp.MustCompile(`go\s+func\(`),
		Suggestion: "Excessive goroutine creation? Consider worker pools to reduce overhead.",
		Priority:   "LOW",
	},
}

var rustRules = []Rule{
	{
		ID:         "OPT-RS-001",
		Pattern:    regexp.MustCompile(`\.unwrap\(\)`),
		Suggestion: "Unsafe unwrap(). Use `match` or `?` operator to handle potential panics gracefully.",
		Priority:   "HIGH",
	},
	{
		ID:         "OPT-RS-002",
		Pattern:    regexp.MustCompile(`fn\s+[a-z_]+\s*\(.*:\s*String\)`),
		Suggestion: "Taking `String` ownership in args forces allocation. Accept `&str` to allow zero-copy slices.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RS-003",
		Pattern:    regexp.MustCompile(`Vec::new\(\)`),
		Suggestion: "Allocation loop ahead? Use `Vec::with_capacity(n)` to prevent resizing overhead.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RS-004",
		Pattern:    regexp.MustCompile(`async\s+move\s*\{\s*\}`),
		Suggestion: "Legacy async block inside closure? Rust 2024 supports native `async || {}` closures.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-RS-001",
		Pattern:    regexp.MustCompile(`String::new\(\)`),
		Suggestion: "String allocation loop? Use `String::with_capacity(n)` to pre-allocate and avoid resizing.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-RS-002",
		Pattern:    regexp.MustCompile(`\.collect::<Vec<`),
		Suggestion: "Collecting into Vec for processing? Chain iterators directly to avoid intermediate allocations.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-RS-003",
		Pattern:    regexp.MustCompile(`#\[inline\]`),
		Suggestion: "Manual inlining? Profile first. Overuse increases binary size with marginal gains.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-RS-004",
		Pattern:    regexp.MustCompile(`serde_json::(from_str|to_string)`),
		Suggestion: "High-throughput JSON? Use `serde_json::with_capacity` or `postcard` for specialized perf.",
		Priority:   "LOW",
	},
}

var mojoRules = []Rule{
	{
		ID:         "OPT-MOJO-001",
		Pattern:    regexp.MustCompile(`def\s+[a-zA-Z0-9_]+\s*\(`),
		Suggestion: "Using `def` (dynamic). For high performance, use `fn` (static) and explicit types.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-MOJO-002",
		Pattern:    regexp.MustCompile(`var\s+[a-zA-Z0-9_]+\s*=`),
		Suggestion: "Variable declared with `var`. If immutable, use `let` for better compiler optimization.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-MOJO-001",
		Pattern:    regexp.MustCompile(`fn\s+[a-zA-Z0-9_]+\(`),
		Suggestion: "Add `final` to methods returning `Self` for static dispatch and inlining benefits.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-RES-MOJO-002",
		Pattern:    regexp.MustCompile(`import\s+Python`),
		Suggestion: "Python interop has overhead. Re-implement perf-critical parts in native Mojo for max speed.",
		Priority:   "MEDIUM",
	},
	{
		ID:         "OPT-RES-MOJO-003",
		Pattern:    regexp.MustCompile(`List\[`),
		Suggestion: "Generic List detected. Use `Sequence` with explicit types for SIMD optimizations.",
		Priority:   "LOW",
	},
}

var shellRules = []Rule{
	{
		ID:         "OPT-CLI-001",
		Pattern:    regexp.MustCompile(`grep\s+(-r|-R|--recursive)?`),
		Suggestion: "Legacy `grep` detected. Use `ripgrep` (`rg`) for 10x faster searching.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-CLI-002",
		Pattern:    regexp.MustCompile(`find\s+\.\s+-name`),
		Suggestion: "Legacy `find` detected. Use `fd` (fd-find) for faster file system traversal.",
		Priority:   "LOW",
	},
	{
		ID:         "OPT-CLI-003",
		Pattern:    regexp.MustCompile(`os\.system\s*\(`),
		Suggestion: "`os.system` is blocking and insecure. Use `subprocess.run` or `asyncio.create_subprocess_exec`.",
		Priority:   "HIGH",
	},
}

// RulesForExtension returns the rule set for a file suffix (with leading
// dot). Python files also get the shell rules to catch subprocess usage.
func RulesForExtension(ext string) []Rule {
	switch ext {
	case ".py":
		rules := make([]Rule, 0, len(pythonRules)+len(shellRules))
		rules = append(rules, pythonRules...)
		return append(rules, shellRules...)
	case ".ts", ".tsx", ".js", ".jsx":
		return typescriptRules
	case ".go":
		return goRules
	case ".rs":
		return rustRules
	case ".mojo":
		return mojoRules
	case ".sh":
		return shellRules
	default:
		return nil
	}
}

// FixExampleFor returns the before/after snippet for a rule, or "" when the
// rule carries none.
func FixExampleFor(ruleID string) string {
	for _, group := range [][]Rule{pythonRules, typescriptRules, goRules, rustRules, mojoRules, shellRules} {
		for _, r := range group {
			if r.ID == ruleID {
				return r.FixExample
			}
		}
	}
	return ""
}

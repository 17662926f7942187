package classification

import "regexp"

// Code markers. Each pattern is matched against a single trimmed line and
// requires enough structure that ordinary prose does not trip it.
var codeLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(func|fn|def)\s+[\w.]+\s*[(\[<]`),
	regexp.MustCompile(`^(async\s+)?function\b\s*[\w$]*\s*\(`),
	regexp.MustCompile(`^(export\s+)?(abstract\s+)?(class|struct|interface|enum|trait|impl)\s+\w+(<[^>]*>)?(\([\w., ]*\))?(\s+(extends|implements|for)\s+[\w.<>, ]+)?\s*[:{]\s*$`),
	regexp.MustCompile(`^(export\s+)?(const|let|var)\s+[\w$\[\]{}, ]+\s*(:[^=]+)?:?=`),
	regexp.MustCompile(`^(public|private|protected|static)\b.*[({;]\s*$`),
	regexp.MustCompile(`^package\s+[\w.]+\s*;?$`),
	regexp.MustCompile(`^import\s+("[^"]+"|'[^']+'|[\w$]+(\.[\w$*]+)+|@?[\w.-]+(/[\w.-]+)+)\s*;?$`),
	regexp.MustCompile(`^import\s+[\w.]+\s*;$`),
	regexp.MustCompile(`^import\s+[\w.]+\s+as\s+\w+$`),
	regexp.MustCompile(`^import\s*\($`),
	regexp.MustCompile(`^import\s+.+\sfrom\s+['"][^'"]+['"];?$`),
	regexp.MustCompile(`^from\s+(\.+[\w.]*|\w+(\.\w+)+|\w*_\w*)\s+import\s+[\w*, ()]+$`),
	regexp.MustCompile(`^from\s+\w+\s+import\s+(\*|\(|\w+\s*,|\w+\s+as\s+\w+$)`),
	regexp.MustCompile(`^#\s*(include|define|import|pragma)\b`),
	regexp.MustCompile(`^(if|for|while|switch)\s*\(.*\)\s*\{?$`),
	regexp.MustCompile(`\(([\w$, ]*)\)\s*=>`),
	regexp.MustCompile(`^(SELECT|INSERT\s+INTO|UPDATE|DELETE\s+FROM|CREATE\s+TABLE)\b.*\b(FROM|VALUES|SET|WHERE)\b|^CREATE\s+TABLE\b.*\(`),
	regexp.MustCompile(`^<(!DOCTYPE|\?xml|html|head|body|div|span|script|style)\b`),
}

// statementPattern matches a lone line that is clearly a statement: an
// assignment or a call on an identifier, terminated by a semicolon.
var statementPattern = regexp.MustCompile(`^([\w$<>\[\]*]+\s+)?[\w$.\[\]*]+(\s*[-+*/%&|^]?=\s*[^=\s].*|\s*\(.*\))\s*;$`)

// bareImportPattern matches an import of a single plain name. Prose reads the
// same way ("import tariffs"), so it only counts alongside other lines.
var bareImportPattern = regexp.MustCompile(`^(import\s+\w+|from\s+\w+\s+import\s+\w+)$`)

// Link markers, matched against a single token.
var (
	urlPattern          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^\s/?#]+[^\s]*$`)
	wwwPattern          = regexp.MustCompile(`^www\.[^\s.]+\.[^\s]{2,}$`)
	mailtoPattern       = regexp.MustCompile(`^mailto:[^\s]+$`)
	emailPattern        = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	absolutePathPattern = regexp.MustCompile(`^(~|\.{1,2})?/[^\s/][^\s]*$`)
	windowsPathPattern  = regexp.MustCompile(`^([A-Za-z]:\\|\\\\[^\s\\]+\\)[^\s]*$`)
	relativePathPattern = regexp.MustCompile(`^[\w.-]+(/[\w.-]+)+\.[A-Za-z0-9]{1,8}$`)
)

// numericPatterns cover the bare numeric literals treated as Data.
var numericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[-+]?[$€£¥]?\s?(\d{1,3}(,\d{3})+|\d+)(\.\d+)?([eE][-+]?\d+)?%?$`),
	regexp.MustCompile(`^[-+]?[$€£¥]?\.\d+%?$`),
	regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`),
	regexp.MustCompile(`^0[bB][01]+$`),
}

// linkTokenTrim lists punctuation that commonly wraps a link in prose.
const linkTokenTrim = `"'()<>[]{},.;:!?`

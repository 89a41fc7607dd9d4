package memory

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sandevgo/coworker/internal/core"
)

// A rule binds a fact key to an ordered list of phrase patterns. Patterns run
// against the lower-cased utterance; the first match per rule wins. Transform
// reshapes the captured span, validate may reject it (rejection is silent).
type rule struct {
	key        core.FactKey
	patterns   []*regexp.Regexp
	transform  func(string) string
	validate   func(string) bool
	accumulate bool // append to the existing value instead of overwriting
}

// Free-text captures run until the nearest terminator: period, comma, end of
// input, " and" or " but".
const capture = `(.+?)(?:\.|,|$|\s+and|\s+but)`

func compile(prefixes ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// professionStopWords guards against false positives like "I'm a person".
var professionStopWords = []string{"person", "individual", "human", "user", "student studying"}

// rules is the extraction catalogue, in kind priority order.
var rules = []rule{
	{
		key: core.FactName,
		patterns: compile(
			`my name is (\w+)`,
			`i'm (\w+)`,
			`i am (\w+)`,
			`call me (\w+)`,
			`name's (\w+)`,
		),
		transform: titleCase,
	},
	{
		key: core.FactWorkplace,
		patterns: compile(
			`i work at `+capture,
			`i work for `+capture,
			`i'm employed at `+capture,
			`my job is at `+capture,
		),
	},
	{
		key: core.FactLocation,
		patterns: compile(
			`i live in `+capture,
			`i'm from `+capture,
			`i'm in `+capture,
			`my location is `+capture,
		),
	},
	{
		key: core.FactInterests,
		patterns: compile(
			`i like `+capture,
			`i love `+capture,
			`i enjoy `+capture,
			`i'm interested in `+capture,
			`my hobby is `+capture,
			`i'm passionate about `+capture,
		),
		accumulate: true,
	},
	{
		key: core.FactProfession,
		patterns: compile(
			`i'm a `+capture,
			`i am a `+capture,
			`i work as a `+capture,
			`my job is `+capture,
			`i'm an? `+capture,
		),
		validate: func(v string) bool {
			lowered := strings.ToLower(v)
			for _, stop := range professionStopWords {
				if strings.Contains(lowered, stop) {
					return false
				}
			}
			return true
		},
	},
	{
		key: core.FactAge,
		patterns: compile(
			`i'm (\d+) years old`,
			`i am (\d+) years old`,
			`my age is (\d+)`,
			`i'm (\d+)`,
		),
		validate: func(v string) bool {
			age, err := strconv.Atoi(v)
			if err != nil {
				return false
			}
			return age >= 13 && age <= 120
		},
	},
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

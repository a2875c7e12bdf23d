package languages

import (
	"sort"
	"strings"

	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
)

type LanguageType int

const (
	Python LanguageType = iota + 1
	Java
	JavaScript
	CPP
)

func (lt LanguageType) String() string {
	for key, value := range LanguageTypeMap {
		if value == lt {
			return strings.ToLower(key)
		}
	}
	return ""
}

var LanguageTypeMap = map[string]LanguageType{
	"PYTHON":     Python,
	"JAVA":       Java,
	"JAVASCRIPT": JavaScript,
	"CPP":        CPP,
}

var languageAliases = map[string]LanguageType{
	"PY":  Python,
	"JS":  JavaScript,
	"C++": CPP,
}

// RemoteLanguageMap holds the identifier each remote execution service expects.
var RemoteLanguageMap = map[LanguageType]string{
	Python: "python",
	Java:   "java",
}

// LanguageSpec describes a language in the handshake response.
type LanguageSpec struct {
	LanguageName string `json:"name"`
	Version      string `json:"version,omitempty"`
	Remote       bool   `json:"remote"`
}

func ParseLanguageType(s string) (LanguageType, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if lt, ok := LanguageTypeMap[key]; ok {
		return lt, nil
	}
	if lt, ok := languageAliases[key]; ok {
		return lt, nil
	}
	return 0, errors.ErrInvalidLanguageType
}

// DefaultLanguage is the language preselected for a programming question.
func DefaultLanguage() LanguageType {
	lt, _ := ParseLanguageType(constants.DefaultQuestionLanguage)
	return lt
}

func GetSupportedLanguages() []string {
	languages := make([]string, 0, len(LanguageTypeMap))
	for _, lt := range sortedLanguageTypes() {
		languages = append(languages, lt.String())
	}
	return languages
}

// GetSupportedLanguagesWithVersions reports every language together with the
// remote runtime version configured for it. Languages without a remote
// runtime are listed with an empty version.
func GetSupportedLanguagesWithVersions(versions map[LanguageType]string) []LanguageSpec {
	specs := make([]LanguageSpec, 0, len(LanguageTypeMap))
	for _, lt := range sortedLanguageTypes() {
		_, remote := RemoteLanguageMap[lt]
		specs = append(specs, LanguageSpec{
			LanguageName: lt.String(),
			Version:      versions[lt],
			Remote:       remote,
		})
	}
	return specs
}

func sortedLanguageTypes() []LanguageType {
	types := make([]LanguageType, 0, len(LanguageTypeMap))
	for _, lt := range LanguageTypeMap {
		types = append(types, lt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

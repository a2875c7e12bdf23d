package languages_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/mini-maxit/grader/pkg/errors"
	. "github.com/mini-maxit/grader/pkg/languages"
)

func TestParseLanguageType(t *testing.T) {
	cases := []struct {
		in   string
		want LanguageType
	}{
		{"python", Python},
		{"PYTHON", Python},
		{" py ", Python},
		{"java", Java},
		{"javascript", JavaScript},
		{"js", JavaScript},
		{"cpp", CPP},
		{"c++", CPP},
	}

	for _, c := range cases {
		got, err := ParseLanguageType(c.in)
		if err != nil {
			t.Fatalf("ParseLanguageType(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLanguageType(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseLanguageType_Unknown(t *testing.T) {
	_, err := ParseLanguageType("cobol")
	if !errors.Is(err, pkgerrors.ErrInvalidLanguageType) {
		t.Fatalf("expected ErrInvalidLanguageType, got %v", err)
	}
}

func TestLanguageTypeString(t *testing.T) {
	if Python.String() != "python" || JavaScript.String() != "javascript" || CPP.String() != "cpp" {
		t.Fatalf("unexpected names: %s %s %s", Python, JavaScript, CPP)
	}
	if DefaultLanguage() != Python {
		t.Fatalf("expected python default, got %v", DefaultLanguage())
	}
}

func TestGetSupportedLanguagesWithVersions(t *testing.T) {
	specs := GetSupportedLanguagesWithVersions(map[LanguageType]string{Python: "3.10.0", Java: "4"})
	if len(specs) != 4 {
		t.Fatalf("expected 4 languages, got %d", len(specs))
	}
	if specs[0].LanguageName != "python" || specs[0].Version != "3.10.0" || !specs[0].Remote {
		t.Fatalf("unexpected python spec: %+v", specs[0])
	}
	if specs[2].LanguageName != "javascript" || specs[2].Remote {
		t.Fatalf("unexpected javascript spec: %+v", specs[2])
	}
}

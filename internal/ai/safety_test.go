package ai

import (
	"strings"
	"testing"

	"github.com/nurlan2209/undeme/pkg/enums"
)

func TestGenerateSafeResponse_DetectsContextFromKeywords(t *testing.T) {
	cases := []struct {
		message string
		want    enums.ChatContext
	}{
		{"мені полиция ұстады", enums.ChatContextDetention},
		{"қатты қан кетіп жатыр", enums.ChatContextMedical},
		{"үйде зорлық болып жатыр", enums.ChatContextDomesticViolence},
		{"адвокат керек, сотқа барамын", enums.ChatContextLegal},
		{"жай сұрақ", enums.ChatContextGeneral},
	}
	for _, tc := range cases {
		got := GenerateSafeResponse(tc.message, enums.ChatContextGeneral)
		if got.Context != tc.want {
			t.Errorf("message %q: context = %s, want %s", tc.message, got.Context, tc.want)
		}
	}
}

func TestGenerateSafeResponse_ExplicitContextWins(t *testing.T) {
	got := GenerateSafeResponse("жай сұрақ", enums.ChatContextMedical)
	if got.Context != enums.ChatContextMedical {
		t.Fatalf("context = %s, want medical", got.Context)
	}
	if !strings.Contains(got.Text, "112/103") {
		t.Fatalf("expected medical template, got:\n%s", got.Text)
	}
}

func TestGenerateSafeResponse_FlagsEscalate(t *testing.T) {
	got := GenerateSafeResponse("менде пышақ бар", enums.ChatContextGeneral)
	if len(got.SafetyFlags) == 0 {
		t.Fatal("expected safety flags for weapon keyword")
	}
	if !strings.Contains(got.Text, escalationNotice) {
		t.Fatal("expected escalation notice in response")
	}
	if !strings.Contains(got.Text, Disclaimer) {
		t.Fatal("expected disclaimer in response")
	}
}

func TestComposeFinalResponse_FallsBackWithoutModelText(t *testing.T) {
	if got := ComposeFinalResponse("", "fallback text", nil); got != "fallback text" {
		t.Fatalf("got %q, want fallback text", got)
	}
}

func TestComposeFinalResponse_SanitizesModelText(t *testing.T) {
	model := "**1) Қадам**\n```code block```\nсоңы"
	got := ComposeFinalResponse(model, "fallback", nil)

	if strings.Contains(got, "**") || strings.Contains(got, "```") {
		t.Fatalf("expected markdown stripped, got:\n%s", got)
	}
	if !strings.Contains(got, Disclaimer) {
		t.Fatal("expected disclaimer appended")
	}
}

func TestComposeFinalResponse_EscalatesWithFlags(t *testing.T) {
	got := ComposeFinalResponse("жауап", "fallback", []string{"violence"})
	if !strings.HasPrefix(got, escalationNotice) {
		t.Fatalf("expected escalation first, got:\n%s", got)
	}
}

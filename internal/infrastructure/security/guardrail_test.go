package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/alan-go/internal/domain"
)

func defaultGuardrail(t *testing.T) *Guardrail {
	t.Helper()
	// A path that does not exist forces the embedded default rules.
	g, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	return g
}

func TestEvaluateSafeCommand(t *testing.T) {
	g := defaultGuardrail(t)

	assessment, err := g.Evaluate("ls -la")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if assessment.Level != domain.RiskSafe || assessment.Action != domain.ActionAllow {
		t.Fatalf("ls -la should be safe, got %+v", assessment)
	}
	if len(assessment.Reasons) != 0 {
		t.Fatalf("safe command should carry no reasons: %v", assessment.Reasons)
	}
}

func TestEvaluateBlocksDestructiveCommands(t *testing.T) {
	g := defaultGuardrail(t)

	for _, command := range []string{
		"rm -rf /",
		"sudo rm -rf /var",
		"mkfs.ext4 /dev/sda1",
		"dd if=/dev/zero of=/dev/sda",
	} {
		assessment, err := g.Evaluate(command)
		if err != nil {
			t.Fatalf("Evaluate(%q) error: %v", command, err)
		}
		if assessment.Action != domain.ActionBlock {
			t.Errorf("Evaluate(%q) action = %s, want block", command, assessment.Action)
		}
		if assessment.Level != domain.RiskCritical {
			t.Errorf("Evaluate(%q) level = %s, want critical", command, assessment.Level)
		}
		if len(assessment.Reasons) == 0 {
			t.Errorf("Evaluate(%q) returned no reasons", command)
		}
	}
}

func TestEvaluateReportsAllMatchedRules(t *testing.T) {
	g := defaultGuardrail(t)

	assessment, err := g.Evaluate("sudo rm -rf / && reboot")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if len(assessment.MatchedRules) < 2 {
		t.Fatalf("expected multiple matched rules, got %v", assessment.MatchedRules)
	}
	// The most severe match decides the verdict.
	if assessment.Level != domain.RiskCritical || assessment.Action != domain.ActionBlock {
		t.Fatalf("combined command verdict = %+v", assessment)
	}
}

func TestNewGuardrailCustomRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: 'drop\s+table'
      level: high
      message: "drops a database table"
      action: confirm
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	g, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	assessment, err := g.Evaluate("psql -c 'drop table users'")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if assessment.Level != domain.RiskHigh || assessment.Action != domain.ActionConfirm {
		t.Fatalf("custom rule verdict = %+v", assessment)
	}

	// Custom rules replace the defaults entirely.
	assessment, err = g.Evaluate("rm -rf /")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if assessment.Level != domain.RiskSafe {
		t.Fatalf("default rule leaked into custom rule set: %+v", assessment)
	}
}

func TestNewGuardrailRejectsInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: '(unbalanced'
      level: high
      message: "bad regex"
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := NewGuardrail(path); err == nil {
		t.Fatal("expected an error for an uncompilable pattern")
	}
}

func TestParseActionDefaultsFollowSeverity(t *testing.T) {
	if got := parseAction("", domain.RiskCritical); got != domain.ActionBlock {
		t.Fatalf("critical default = %s, want block", got)
	}
	if got := parseAction("", domain.RiskMedium); got != domain.ActionConfirm {
		t.Fatalf("medium default = %s, want confirm", got)
	}
	if got := parseAction("", domain.RiskSafe); got != domain.ActionAllow {
		t.Fatalf("safe default = %s, want allow", got)
	}
}

package ilio

import (
	"strings"
	"testing"

	"viperc/internal/il/ilcore"
)

func TestParseScenarioFive(t *testing.T) {
	src := "il 0.1\n" +
		"func @main() -> i32 {\n" +
		"^entry:\n" +
		"  %t0 = iconst i32 42\n" +
		"  ret i32 %t0\n" +
		"}\n"

	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mod.Version != "0.1" {
		t.Fatalf("version = %q, want 0.1", mod.Version)
	}
	fn := mod.FunctionByName("main")
	if fn == nil {
		t.Fatal("missing function main")
	}
	if len(fn.Blocks) != 1 || fn.Blocks[0].Label != "entry" {
		t.Fatalf("unexpected blocks: %+v", fn.Blocks)
	}
	if len(fn.Blocks[0].Instrs) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(fn.Blocks[0].Instrs))
	}

	printed := Print(mod)
	if printed != src {
		t.Fatalf("round trip mismatch:\n--- got ---\n%s\n--- want ---\n%s", printed, src)
	}
}

func TestRoundTripArithmeticAndBranches(t *testing.T) {
	src := "il 1.0\n" +
		"extern @puts(ptr) -> i32\n" +
		"global @msg = \"hi\\n\"\n" +
		"func @add(%t0: i32, %t1: i32) -> i32 {\n" +
		"^entry:\n" +
		"  %t2 = add i32 %t0, %t1\n" +
		"  %t3 = icmp_lt i32 %t2, 0\n" +
		"  cbr %t3 -> ^neg, ^pos\n" +
		"^neg:\n" +
		"  %t4 = sub i32 0, %t2\n" +
		"  ret i32 %t4\n" +
		"^pos:\n" +
		"  ret i32 %t2\n" +
		"}\n"

	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	printed := Print(mod)
	if printed != src {
		t.Fatalf("round trip mismatch:\n--- got ---\n%s\n--- want ---\n%s", printed, src)
	}

	mod2, err := Parse(printed)
	if err != nil {
		t.Fatalf("Parse(printed): %v", err)
	}
	if Print(mod2) != printed {
		t.Fatal("second generation print diverged")
	}
}

func TestRoundTripSwitchAndTrap(t *testing.T) {
	src := "il 0.1\n" +
		"func @classify(%t0: i64) -> i64 {\n" +
		"^entry:\n" +
		"  switch i64 %t0 -> ^default, case 1 -> ^one, case 2 -> ^two\n" +
		"^default:\n" +
		"  trap \"unreachable\"\n" +
		"^one:\n" +
		"  ret i64 1\n" +
		"^two:\n" +
		"  ret i64 2\n" +
		"}\n"

	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fn := mod.FunctionByName("classify")
	sw := fn.Blocks[0].Instrs[0]
	if sw.Op != ilcore.OpSwitch {
		t.Fatalf("expected switch, got %v", sw.Op)
	}
	if len(sw.Edges) != 3 || len(sw.CaseValues) != 2 {
		t.Fatalf("unexpected switch shape: edges=%d cases=%d", len(sw.Edges), len(sw.CaseValues))
	}

	printed := Print(mod)
	if printed != src {
		t.Fatalf("round trip mismatch:\n--- got ---\n%s\n--- want ---\n%s", printed, src)
	}
}

func TestRoundTripFloatBoundaries(t *testing.T) {
	cases := []string{"nan", "inf", "-inf", "0.0", "-0.0", "3.125", "1e+20"}
	for _, lit := range cases {
		src := "il 0.1\n" +
			"func @f() -> f64 {\n" +
			"^entry:\n" +
			"  %t0 = fconst f64 " + lit + "\n" +
			"  ret f64 %t0\n" +
			"}\n"
		mod, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", lit, err)
		}
		printed := Print(mod)
		if printed != src {
			t.Errorf("float %q round trip mismatch: got %q", lit, printed)
		}
	}
}

func TestRoundTripStringEscapes(t *testing.T) {
	src := "il 0.1\n" +
		"global @s = \"line1\\nline2\\ttab\\\"quote\\\\back\\x01\"\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mod.Globals[0].Init.Str != "line1\nline2\ttab\"quote\\back\x01" {
		t.Fatalf("decoded mismatch: %q", mod.Globals[0].Init.Str)
	}
	if Print(mod) != src {
		t.Fatalf("round trip mismatch: got %q", Print(mod))
	}
}

func TestParseRejectsMissingVersionDirective(t *testing.T) {
	_, err := Parse("func @main() -> void {\n^entry:\n  ret void\n}\n")
	if err == nil {
		t.Fatal("expected error for missing 'il' directive")
	}
	if !strings.Contains(err.Error(), "version") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseRejectsUnknownOpcode(t *testing.T) {
	src := "il 0.1\nfunc @main() -> void {\n^entry:\n  bogus i32 1\n}\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestParseRejectsUnterminatedFunction(t *testing.T) {
	src := "il 0.1\nfunc @main() -> void {\n^entry:\n  ret void\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected error for unterminated function")
	}
}

func TestValidVersion(t *testing.T) {
	for _, v := range []string{"0.1", "1", "1.2.3.4"} {
		if !ValidVersion(v) {
			t.Errorf("expected %q to be a valid version", v)
		}
	}
	if ValidVersion("v1.2") {
		t.Error("expected 'v1.2' to be invalid (no leading v)")
	}
}

func TestCompareVersions(t *testing.T) {
	if CompareVersions("0.1", "0.2") >= 0 {
		t.Error("expected 0.1 < 0.2")
	}
	if CompareVersions("1.0", "1.0.0") != 0 {
		t.Error("expected 1.0 == 1.0.0")
	}
}

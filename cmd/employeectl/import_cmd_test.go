package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testHeader = "Personnel_Records.Payroll_Number,Personnel_Records.Forenames,Personnel_Records.Surname," +
	"Personnel_Records.Date_of_Birth,Personnel_Records.Telephone,Personnel_Records.Mobile," +
	"Personnel_Records.Address,Personnel_Records.Address_2,Personnel_Records.Postcode," +
	"Personnel_Records.EMail_Home,Personnel_Records.Start_Date"

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staff.csv")
	content := testHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.Execute()
	return out.String(), err
}

func TestImportCmd(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		flags    []string
		wantOut  []string
		wantCode int
	}{
		{
			name:     "clean file",
			rows:     []string{"P1,Alex,Smith,01/01/1980,,,,,,a@b.com,01/06/2015"},
			wantOut:  []string{"Successfully processed 1 employees"},
			wantCode: exitOK,
		},
		{
			name: "errors exit with validation code",
			rows: []string{
				"P1,Alex,Smith,01/01/1980,,,,,,a@b.com,01/06/2015",
				"P2,Sam,,01/01/1980,,,,,,c@d.com,01/06/2015",
			},
			wantOut: []string{
				"Successfully processed 1 employees",
				"  - Invalid data in row 3: missing required field(s) Surname",
			},
			wantCode: exitValidation,
		},
		{
			name:     "dry run",
			rows:     []string{"P1,Alex,Smith,01/01/1980,,,,,,a@b.com,01/06/2015"},
			flags:    []string{"--dry-run"},
			wantOut:  []string{"Successfully validated 1 employees"},
			wantCode: exitOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"import", writeCSV(t, tt.rows...)}, tt.flags...)
			out, err := run(t, args...)

			if code := exitCode(err); code != tt.wantCode {
				t.Fatalf("exit code = %d (err %v), want %d", code, err, tt.wantCode)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestImportCmd_JSON(t *testing.T) {
	path := writeCSV(t,
		"P1,Alex,Smith,01/01/1980,,,,,,a@b.com,01/06/2015",
		"P1,Sam,Jones,01/01/1980,,,,,,c@d.com,01/06/2015",
	)

	out, err := run(t, "import", path, "--format", "json")
	if exitCode(err) != exitValidation {
		t.Fatalf("err = %v, want validation exit", err)
	}

	var report struct {
		SuccessCount int      `json:"successCount"`
		Errors       []string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.SuccessCount != 1 {
		t.Errorf("successCount = %d, want 1", report.SuccessCount)
	}
	if len(report.Errors) != 1 || report.Errors[0] != "Payroll number P1 is duplicated within the uploaded file" {
		t.Errorf("errors = %q", report.Errors)
	}
}

func TestImportCmd_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"import", filepath.Join(t.TempDir(), "nope.csv")}},
		{"bad format", []string{"import", writeCSV(t), "--format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if code := exitCode(err); code != exitUsage {
				t.Errorf("exit code = %d (err %v), want %d", code, err, exitUsage)
			}
		})
	}
}

func TestListCmd_EmptyMemoryStore(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != testHeader {
		t.Errorf("output = %q, want header only", out)
	}
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate")
	if code := exitCode(err); code != exitUsage {
		t.Errorf("exit code = %d (err %v), want %d", code, err, exitUsage)
	}
}

func TestLoadEnvFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	if err := loadEnvFile(missing, false); err != nil {
		t.Errorf("implicit missing file: %v", err)
	}
	if err := loadEnvFile(missing, true); exitCode(err) != exitUsage {
		t.Errorf("explicit missing file: err = %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("EMPLOYEECTL_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EMPLOYEECTL_TEST_VALUE", "from-env")
	if err := loadEnvFile(path, true); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("EMPLOYEECTL_TEST_VALUE"); got != "from-env" {
		t.Errorf("EMPLOYEECTL_TEST_VALUE = %q, environment should win", got)
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != exitOK {
		t.Error("nil error should exit 0")
	}
	if exitCode(errors.New("boom")) != 1 {
		t.Error("plain error should exit 1")
	}
	wrapped := errors.Join(errors.New("context"), withCode(exitDB, errors.New("db down")))
	if exitCode(wrapped) != exitDB {
		t.Error("wrapped cliError code should survive")
	}
}

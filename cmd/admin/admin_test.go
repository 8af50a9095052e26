package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"alphadash/internal/domain/record"
	"alphadash/internal/domain/subscription"
	"alphadash/internal/infrastructure/localstore"
)

const sheet = "日期,账号,积分,余额,收益,磨损,净利润,余额调整,昨日余额\n" +
	"2026-01-01,1号,15,1200.5,0,3.25,-3.25,0,1203.75\n" +
	"2026-01-02,2号,12,800,100,2.5,97.5,0,802.5\n"

func setupStore(t *testing.T) string {
	t.Helper()
	path := t.TempDir()
	t.Setenv("ALPHADASH_CONFIG", "")
	t.Setenv("ALPHADASH_STORE_BACKEND", "local")
	t.Setenv("ALPHADASH_STORE_LOCAL_PATH", path)
	return path
}

// unlock grants uid the follower tier directly in the local store.
func unlock(t *testing.T, path, uid string) {
	t.Helper()
	store, err := localstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	repo := localstore.NewSubscriptionRepository(store)
	if err := repo.Save(context.Background(), uid, subscription.Follower(time.Now())); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.csv")
	if err := os.WriteFile(path, []byte(sheet), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func exportedRecords(t *testing.T) []record.DailyRecord {
	t.Helper()
	out, err := execute(t, "", "--user", "1", "export", "--format", "json")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var records []record.DailyRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("export is not JSON: %v\n%s", err, out)
	}
	return records
}

func TestImport_DryRunSavesNothing(t *testing.T) {
	setupStore(t)

	out, err := execute(t, "", "--user", "1", "import", writeSheet(t), "--dry-run")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "dry run: 2 records") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if got := exportedRecords(t); len(got) != 0 {
		t.Errorf("dry run stored %d records", len(got))
	}
}

func TestImport_CommitsAndExports(t *testing.T) {
	setupStore(t)

	if _, err := execute(t, "", "--user", "1", "import", writeSheet(t)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	got := exportedRecords(t)
	if len(got) != 2 {
		t.Fatalf("exported %d records, want 2", len(got))
	}
	if got[0].Date != "2026-01-02" || got[0].Net != 97.5 {
		t.Errorf("newest record = %+v", got[0])
	}
}

func TestImport_Stdin(t *testing.T) {
	setupStore(t)

	if _, err := execute(t, sheet, "--user", "1", "import", "-"); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if got := exportedRecords(t); len(got) != 2 {
		t.Errorf("exported %d records, want 2", len(got))
	}
}

func TestImport_Unparseable(t *testing.T) {
	setupStore(t)

	if _, err := execute(t, "hello\nworld", "--user", "1", "import", "-"); err == nil {
		t.Error("import accepted unparseable input")
	}
}

func TestCommands_RequireUser(t *testing.T) {
	setupStore(t)

	if _, err := execute(t, "", "export"); err == nil || !strings.Contains(err.Error(), "--user") {
		t.Errorf("export without --user: err = %v", err)
	}
}

func TestTemplate(t *testing.T) {
	out, err := execute(t, "", "template")
	if err != nil {
		t.Fatalf("template failed: %v", err)
	}
	if !strings.Contains(out, "日期") {
		t.Errorf("template has no header:\n%s", out)
	}
}

func TestClear(t *testing.T) {
	setupStore(t)
	if _, err := execute(t, sheet, "--user", "1", "import", "-"); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "--user", "1", "clear"); err == nil {
		t.Error("clear without --yes should refuse")
	}

	out, err := execute(t, "", "--user", "1", "clear", "--yes")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(out, "removed 2 records") {
		t.Errorf("unexpected output: %s", out)
	}
	if got := exportedRecords(t); len(got) != 0 {
		t.Errorf("%d records left after clear", len(got))
	}
}

func TestStats(t *testing.T) {
	setupStore(t)
	if _, err := execute(t, sheet, "--user", "1", "import", "-"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"month", []string{"stats", "month", "--date", "2026-01-15"}, "Month 2026-01"},
		{"scores", []string{"stats", "scores", "--date", "2026-01-02"}, "Scores on 2026-01-02"},
		{"history", []string{"stats", "history"}, "Total"},
		{"report", []string{"stats", "report", "--raw"}, "# AlphaDash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"--user", "1"}, tt.args...)...)
			if err != nil {
				t.Fatalf("%v failed: %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestStats_InvalidDate(t *testing.T) {
	setupStore(t)

	if _, err := execute(t, "", "--user", "1", "stats", "month", "--date", "2026-1-5"); err == nil {
		t.Error("stats month accepted an invalid date")
	}
}

func TestAccounts_FreeTierLimit(t *testing.T) {
	setupStore(t)

	out, err := execute(t, "", "--user", "1", "accounts", "--count", "3")
	if err != nil {
		t.Fatalf("accounts --count failed: %v", err)
	}
	if !strings.Contains(out, "1 of 1") {
		t.Errorf("free tier should be capped at one account:\n%s", out)
	}
}

func TestAccounts(t *testing.T) {
	unlock(t, setupStore(t), "1")

	out, err := execute(t, "", "--user", "1", "accounts", "--count", "3")
	if err != nil {
		t.Fatalf("accounts --count failed: %v", err)
	}
	if !strings.Contains(out, "3 of") || !strings.Contains(out, "3号") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, "", "--user", "1", "accounts", "--remove", "2号")
	if err != nil {
		t.Fatalf("accounts --remove failed: %v", err)
	}
	if strings.Contains(out, "2号") {
		t.Errorf("2号 still listed:\n%s", out)
	}
}

func TestSeedDemo(t *testing.T) {
	setupStore(t)

	out, err := execute(t, "", "--user", "1", "seed-demo", "--seed", "42")
	if err != nil {
		t.Fatalf("seed-demo failed: %v", err)
	}
	if !strings.Contains(out, "seed 42") {
		t.Errorf("unexpected output: %s", out)
	}
	if got := exportedRecords(t); len(got) == 0 {
		t.Error("seed-demo stored no records")
	}
}

func TestDigest_DryRun(t *testing.T) {
	setupStore(t)

	if _, err := execute(t, "", "--user", "alice", "digest", "--dry-run"); err == nil {
		t.Error("digest accepted a non-numeric user")
	}
	if _, err := execute(t, "", "--user", "1", "digest", "--dry-run"); err != nil {
		t.Errorf("digest --dry-run failed: %v", err)
	}
}

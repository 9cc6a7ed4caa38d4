package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riverbed-labs/nwisfetch/nwis"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandMetadata(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "nwisfetch" {
		t.Errorf("Use = %q, want nwisfetch", cmd.Use)
	}
	for _, sub := range []string{"series", "quality", "read", "version"} {
		found := false
		for _, c := range cmd.Commands() {
			if strings.HasPrefix(c.Use, sub) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", sub)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command: %v", err)
	}
	want := "nwisfetch " + version
	if !strings.Contains(out, want) {
		t.Errorf("output = %q, want it to contain %q", out, want)
	}
}

func TestSeriesCommand_RejectsBadDate(t *testing.T) {
	_, err := execute(t,
		"series", "--site", "07381590", "--start", "01/01/2023", "--end", "2023-01-07")
	if err == nil || !strings.Contains(err.Error(), "--start") {
		t.Errorf("expected --start date error, got %v", err)
	}
}

func TestSeriesCommand_RequiresSite(t *testing.T) {
	_, err := execute(t, "series", "--start", "2023-01-01", "--end", "2023-01-07")
	if err == nil {
		t.Error("expected error for missing --site")
	}
}

func TestReadCommand(t *testing.T) {
	block := "agency\tsite\tdatetime\tvalue\n" +
		"5s\t15s\t20d\t14n\n" +
		"USGS\t01646500\t2023-01-01 00:00\t120.5\n" +
		"USGS\t01646500\t2023-01-01 01:00\tIce\n"
	table, err := nwis.ParseTable(block, '\t')
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	path := filepath.Join(t.TempDir(), "saved.csv")
	if err := nwis.Save(table, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := execute(t, "read", path)
	if err != nil {
		t.Fatalf("read command: %v", err)
	}
	for _, want := range []string{"2 rows", "4 columns", "120.5", "time range"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestReadCommand_RejectsNegativeRows(t *testing.T) {
	block := "datetime\tvalue\n20d\t14n\n2023-01-01 00:00\t1.0\n"
	table, err := nwis.ParseTable(block, '\t')
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	path := filepath.Join(t.TempDir(), "saved.csv")
	if err := nwis.Save(table, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err = execute(t, "read", path, "--rows", "-1")
	if err == nil || !strings.Contains(err.Error(), "--rows") {
		t.Errorf("expected --rows error, got %v", err)
	}
}

func TestReadCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "read", filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

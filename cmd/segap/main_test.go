package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/survey"
	"github.com/segap/segap/pkg/tui"
)

const testWeights = `question,phishing,spear_phishing,baiting,water_holing,pretexting
q1,0.1,0.1,0.1,0.1,0.1
q2,0.1,0.1,0.1,0.1,0.1
q3,0.1,0.1,0.1,0.1,0.1
`

// writeFixture creates questions, weights and a config file pointing at
// them, and returns the config path.
func writeFixture(t *testing.T, weights string) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	q := write("questions.txt", "First question\nSecond question\n\nThird question\n")
	w := write("weights.csv", weights)
	cfg := "survey:\n  page_size: 2\n" +
		"inputs:\n  questions: " + q + "\n  weights: " + w + "\n" +
		"logging:\n  file: " + filepath.Join(dir, "logs", "segap.log") + "\n"
	return write("config.yaml", cfg)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	f := cmd.PersistentFlags()

	for _, flag := range []string{"config", "questions", "weights", "sheet", "page-size", "log-level", "verbose"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}

	for _, name := range []string{"survey", "score", "serve", "validate"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestScoreCmdFlags(t *testing.T) {
	cmd := newScoreCmd(&globalOpts{})
	f := cmd.Flags()

	outputFmt, _ := f.GetString("output")
	if outputFmt != "text" {
		t.Errorf("default output = %q, want text", outputFmt)
	}

	for _, flag := range []string{"answers", "scores", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestSurveyCmdFlags(t *testing.T) {
	cmd := newSurveyCmd(&globalOpts{})
	f := cmd.Flags()

	plain, _ := f.GetBool("plain")
	if plain {
		t.Error("default plain = true, want false")
	}
	if f.Lookup("output") == nil {
		t.Error("missing flag: output")
	}
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd(&globalOpts{})
	if cmd.Flags().Lookup("addr") == nil {
		t.Error("missing flag: addr")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	cfgPath := writeFixture(t, testWeights)

	cfg, err := loadConfig(&globalOpts{configPath: cfgPath, pageSize: 3, logLevel: "debug", sheet: "Sheet1"})
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Survey.PageSize != 3 {
		t.Errorf("page size = %d, want 3", cfg.Survey.PageSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Inputs.WeightsSheet != "Sheet1" {
		t.Errorf("sheet = %q, want Sheet1", cfg.Inputs.WeightsSheet)
	}
	if !strings.HasSuffix(cfg.Inputs.Questions, "questions.txt") {
		t.Errorf("questions = %q, want file value kept", cfg.Inputs.Questions)
	}

	if _, err := loadConfig(&globalOpts{configPath: cfgPath, pageSize: -1}); err == nil {
		t.Error("expected error for negative page size")
	}
}

func TestLoadInputs(t *testing.T) {
	cfg, err := loadConfig(&globalOpts{configPath: writeFixture(t, testWeights)})
	if err != nil {
		t.Fatal(err)
	}

	questions, engine, err := loadInputs(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadInputs() error: %v", err)
	}
	if questions.Len() != 3 {
		t.Errorf("questions = %d, want 3", questions.Len())
	}
	if len(engine.Scenarios()) != 5 {
		t.Errorf("scenarios = %d, want 5", len(engine.Scenarios()))
	}
}

func TestLoadInputsDimensionMismatch(t *testing.T) {
	short := strings.Join(strings.Split(testWeights, "\n")[:3], "\n") + "\n"
	cfg, err := loadConfig(&globalOpts{configPath: writeFixture(t, short)})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = loadInputs(context.Background(), cfg)
	if !errors.Is(err, scoring.ErrDimensionMismatch) {
		t.Fatalf("loadInputs() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestRunScoreJSON(t *testing.T) {
	cfgPath := writeFixture(t, testWeights)
	var buf bytes.Buffer

	err := runScore(context.Background(), &globalOpts{configPath: cfgPath}, scoreOpts{
		scores:    "3, 4, 1",
		outputFmt: "json",
		out:       &buf,
	})
	if err != nil {
		t.Fatalf("runScore() error: %v", err)
	}

	var env struct {
		SessionID string          `json:"session_id"`
		Report    *scoring.Report `json:"report"`
	}
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if env.SessionID == "" {
		t.Error("expected a session id")
	}
	if len(env.Report.Entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(env.Report.Entries))
	}
	// (0.6 + 0.8 + 0.2) * 0.1 detected.
	if got := env.Report.Entries[0].NonDetection; got < 0.8399 || got > 0.8401 {
		t.Errorf("Pnd = %v, want 0.84", got)
	}

	logData, err := os.ReadFile(filepath.Join(filepath.Dir(cfgPath), "logs", "segap.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(logData), "report generated") {
		t.Error("expected completion record in log file")
	}
}

func TestRunScoreAnswersFile(t *testing.T) {
	cfgPath := writeFixture(t, testWeights)
	answers := filepath.Join(filepath.Dir(cfgPath), "answers.yaml")
	if err := os.WriteFile(answers, []byte("answers: [5, 5, 5]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runScore(context.Background(), &globalOpts{configPath: cfgPath}, scoreOpts{
		answersPath: answers,
		outputFmt:   "markdown",
		out:         &buf,
	})
	if err != nil {
		t.Fatalf("runScore() error: %v", err)
	}
	if !strings.Contains(buf.String(), "| Phishing (Email/Website) | 0.3000 | 0.7000 | :orange_circle: HIGH |") {
		t.Errorf("unexpected markdown:\n%s", buf.String())
	}
}

func TestRunSurveyPlain(t *testing.T) {
	cfgPath := writeFixture(t, testWeights)
	var out bytes.Buffer

	err := runSurvey(context.Background(), &globalOpts{configPath: cfgPath}, surveyOpts{
		outputFmt: "text",
		in:        strings.NewReader("2\n9\n3\n4\n\n"),
		out:       &out,
	})
	if err != nil {
		t.Fatalf("runSurvey() error: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, `Question 2: "9"`) {
		t.Error("expected validation message for question 2")
	}
	if !strings.Contains(text, "Pnd") {
		t.Error("expected report table")
	}
}

func TestRunSurveyQuit(t *testing.T) {
	cfgPath := writeFixture(t, testWeights)
	var out bytes.Buffer
	err := runSurvey(context.Background(), &globalOpts{configPath: cfgPath}, surveyOpts{
		in:  strings.NewReader("q\n"),
		out: &out,
	})
	if err != nil {
		t.Fatalf("quitting on purpose should not fail, got %v", err)
	}
	if strings.Contains(out.String(), "Pnd") {
		t.Error("no report expected after quitting")
	}
}

func TestRunSurveyInputEnded(t *testing.T) {
	cfgPath := writeFixture(t, testWeights)
	err := runSurvey(context.Background(), &globalOpts{configPath: cfgPath}, surveyOpts{
		in:  strings.NewReader("2\n"),
		out: &bytes.Buffer{},
	})
	if !errors.Is(err, tui.ErrInputEnded) {
		t.Fatalf("runSurvey() error = %v, want ErrInputEnded", err)
	}
}

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{name: "yaml list", data: "- 1\n- 2\n- 3\n", want: []string{"1", "2", "3"}},
		{name: "json list", data: `[4, 5, "x"]`, want: []string{"4", "5", "x"}},
		{name: "answers key", data: `{"answers": [2, 2]}`, want: []string{"2", "2"}},
		{name: "no answers", data: "other: 1\n", wantErr: true},
		{name: "invalid", data: "{{", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswers([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnswers() error: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseAnswers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreAnswersValidation(t *testing.T) {
	m, _ := scoring.NewWeightMatrix([][]float64{
		{0.1, 0.1, 0.1, 0.1, 0.1},
		{0.1, 0.1, 0.1, 0.1, 0.1},
		{0.1, 0.1, 0.1, 0.1, 0.1},
	})
	engine, err := scoring.NewEngine(3, m, scoring.DefaultScenarios())
	if err != nil {
		t.Fatal(err)
	}

	ctrl, _ := survey.NewController(3, engine, survey.WithPageSize(2))
	if _, err := scoreAnswers(ctrl, []string{"1", "2"}); err == nil {
		t.Error("expected error for short answer list")
	}

	ctrl, _ = survey.NewController(3, engine, survey.WithPageSize(2))
	_, err = scoreAnswers(ctrl, []string{"1", "2", "7"})
	var verr *survey.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("scoreAnswers() error = %v, want *survey.ValidationError", err)
	}
	if verr.Page != 1 || verr.Violations[0].Index != 2 {
		t.Errorf("unexpected violation: %+v", verr)
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(strings.NewReader(""), &bytes.Buffer{}) {
		t.Error("buffers are not terminals")
	}
}

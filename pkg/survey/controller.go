package survey

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/segap/segap/pkg/scoring"
)

// DefaultPageSize is the number of questions shown per page.
const DefaultPageSize = 5

// Scorer turns a complete answer vector into a report.
// *scoring.Engine satisfies it.
type Scorer interface {
	Score(scores []int) (*scoring.Report, error)
}

// State is a position of the survey state machine: Page(n) or Completed.
type State struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	Completed  bool `json:"completed"`
}

func (s State) String() string {
	if s.Completed {
		return "Completed"
	}
	return fmt.Sprintf("Page(%d)", s.Page)
}

// Controller drives a paginated survey session. It gates page commits into
// its ResponseStore and invokes the Scorer once the last page validates.
type Controller struct {
	questions  int
	pageSize   int
	totalPages int

	page      int
	completed bool

	store   *ResponseStore
	pending map[int]string // entered but not yet committed text
	scorer  Scorer
	report  *scoring.Report

	logger *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the number of questions per page.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		c.pageSize = n
	}
}

// WithLogger sets the logger used for transition records.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a Controller at Page(0) for questionCount questions.
func NewController(questionCount int, scorer Scorer, opts ...Option) (*Controller, error) {
	c := &Controller{
		questions: questionCount,
		pageSize:  DefaultPageSize,
		pending:   make(map[int]string),
		scorer:    scorer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if questionCount < 1 {
		return nil, goerr.New("survey needs at least one question", goerr.V("questions", questionCount))
	}
	if c.pageSize < 1 {
		return nil, goerr.Wrap(ErrInvalidPageSize, "cannot create survey", goerr.V(PageSizeKey, c.pageSize))
	}
	if scorer == nil {
		return nil, goerr.New("scorer is nil")
	}

	c.totalPages = (questionCount + c.pageSize - 1) / c.pageSize
	c.store = NewResponseStore(questionCount)
	return c, nil
}

// State returns the current state machine position.
func (c *Controller) State() State {
	return State{Page: c.page, TotalPages: c.totalPages, Completed: c.completed}
}

// Page returns the current page index. It is the last page visited when
// the survey is completed.
func (c *Controller) Page() int { return c.page }

// TotalPages returns ceil(questions / pageSize).
func (c *Controller) TotalPages() int { return c.totalPages }

// PageSize returns the configured number of questions per page.
func (c *Controller) PageSize() int { return c.pageSize }

// QuestionCount returns the number of questions in the survey.
func (c *Controller) QuestionCount() int { return c.questions }

// Completed reports whether the survey has been scored.
func (c *Controller) Completed() bool { return c.completed }

// IsLastPage reports whether Forward from here will score the survey.
func (c *Controller) IsLastPage() bool { return !c.completed && c.page == c.totalPages-1 }

// Report returns the report of the last completion, or nil.
func (c *Controller) Report() *scoring.Report { return c.report }

// Progress returns the 1-based current page and the page count.
func (c *Controller) Progress() (current, total int) {
	if c.completed {
		return c.totalPages, c.totalPages
	}
	return c.page + 1, c.totalPages
}

// PageBounds returns the half-open question index range [start, end) of page.
func (c *Controller) PageBounds(page int) (start, end int) {
	start = page * c.pageSize
	end = min(start+c.pageSize, c.questions)
	return start, end
}

// PageQuestions returns the question indices of the current page, or nil
// once the survey is completed.
func (c *Controller) PageQuestions() []int {
	if c.completed {
		return nil
	}
	start, end := c.PageBounds(c.page)
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func (c *Controller) onPage(i int) bool {
	start, end := c.PageBounds(c.page)
	return i >= start && i < end
}

// Enter records raw input for question i on the current page. The text is
// checked when Forward validates the page, not here.
func (c *Controller) Enter(i int, raw string) error {
	if err := c.checkEnter(i); err != nil {
		return err
	}
	c.pending[i] = raw
	return nil
}

// Input is one raw answer for EnterAll.
type Input struct {
	Index int
	Raw   string
}

// EnterAll records a batch of inputs. Either every input is on the current
// page and all are recorded, or none is.
func (c *Controller) EnterAll(inputs []Input) error {
	for _, in := range inputs {
		if err := c.checkEnter(in.Index); err != nil {
			return err
		}
	}
	for _, in := range inputs {
		c.pending[in.Index] = in.Raw
	}
	return nil
}

func (c *Controller) checkEnter(i int) error {
	if c.completed {
		return goerr.Wrap(ErrSurveyCompleted, fmt.Sprintf("cannot enter answer to question %d", i+1),
			goerr.V(QuestionIndexKey, i))
	}
	if !c.onPage(i) {
		start, end := c.PageBounds(c.page)
		return goerr.Wrap(ErrQuestionNotOnPage,
			fmt.Sprintf("question %d is not on page %d (questions %d-%d)", i+1, c.page+1, start+1, end),
			goerr.V(QuestionIndexKey, i), goerr.V(PageKey, c.page))
	}
	return nil
}

// Set is Enter for an integer answer.
func (c *Controller) Set(i, value int) error {
	return c.Enter(i, strconv.Itoa(value))
}

// Value returns what question i currently holds: uncommitted input if any,
// otherwise the stored score.
func (c *Controller) Value(i int) string {
	if raw, ok := c.pending[i]; ok {
		return raw
	}
	return strconv.Itoa(c.store.Score(i))
}

// Score returns the committed score of question i.
func (c *Controller) Score(i int) int {
	return c.store.Score(i)
}

// ValidatePage checks every answer held on page and returns a
// *ValidationError listing all of the rejected ones.
func (c *Controller) ValidatePage(page int) error {
	_, err := c.validatePage(page)
	return err
}

func (c *Controller) validatePage(page int) (map[int]int, error) {
	if page < 0 || page >= c.totalPages {
		return nil, goerr.New("page out of range", goerr.V(PageKey, page))
	}
	start, end := c.PageBounds(page)
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return validateAnswers(page, indices, c.Value)
}

// Back moves to the previous page without validation. It is a no-op on
// the first page and once completed; use Restart from Completed.
func (c *Controller) Back() {
	if c.completed || c.page == 0 {
		return
	}
	c.page--
	c.logger.Debug("survey page back", zap.Int("page", c.page))
}

// Forward validates the current page and, if every answer is in range,
// commits it. From the last page it scores the survey and moves to
// Completed. On validation failure the state is unchanged and the returned
// error is a *ValidationError.
func (c *Controller) Forward() error {
	if c.completed {
		return goerr.Wrap(ErrSurveyCompleted, "cannot move forward")
	}

	accepted, err := c.validatePage(c.page)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.logger.Info("survey page rejected",
				zap.Int("page", c.page), zap.Ints("questions", verr.Indices()))
		}
		return err
	}

	start, end := c.PageBounds(c.page)
	for i := start; i < end; i++ {
		if err := c.store.SetScore(i, accepted[i]); err != nil {
			return err
		}
		delete(c.pending, i)
	}

	if c.page < c.totalPages-1 {
		c.page++
		c.logger.Debug("survey page forward", zap.Int("page", c.page))
		return nil
	}

	scores, err := c.store.Vector()
	if err != nil {
		return goerr.Wrap(err, "survey reached scoring with unanswered questions")
	}
	report, err := c.scorer.Score(scores)
	if err != nil {
		return goerr.Wrap(err, "failed to score survey")
	}

	c.completed = true
	c.report = report
	c.logger.Info("survey completed", zap.String("highest_tier", string(report.Highest())))
	return nil
}

// Restart returns to Page(0). Stored scores are kept and become the
// values shown on the pages again; the previous report is discarded.
func (c *Controller) Restart() {
	c.page = 0
	c.completed = false
	c.report = nil
	c.logger.Debug("survey restarted")
}

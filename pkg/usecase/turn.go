package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/compose"
	"github.com/barriolab/vecino/pkg/service/debounce"
	"github.com/barriolab/vecino/pkg/service/ratelimit"
	"github.com/barriolab/vecino/pkg/service/search"
	"github.com/barriolab/vecino/pkg/utils/errutil"
	"github.com/barriolab/vecino/pkg/utils/logging"
)

// TurnUseCase handles one inbound message end to end: admission, history
// recording, debouncing, and (after the quiet window) retrieval, composition
// and delivery through the Responder.
type TurnUseCase struct {
	repo      interfaces.Repository
	resolve   *ResolveUseCase
	history   *HistoryUseCase
	composer  *compose.Composer
	responder interfaces.Responder
	limiter   *ratelimit.Limiter
	debouncer *debounce.Coordinator

	locationTTL time.Duration
	now         func() time.Time
}

// Submit admits a message into the pipeline. It returns synchronously: an
// accepted turn resolves after the debounce window and delivers its result
// through the responder.
func (t *TurnUseCase) Submit(ctx context.Context, input *model.TurnInput) (*model.TurnAck, error) {
	if err := input.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidUserID, err.Error())
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrEmptyQuery
	}

	now := input.Now
	if now.IsZero() {
		now = t.now()
	}

	if !t.limiter.Allow(input.UserID) {
		logging.From(ctx).Warn("rate limited",
			slog.String("user_id", input.UserID.String()))
		return &model.TurnAck{Reason: types.ReasonRateLimited}, nil
	}

	if input.Location != nil {
		if err := t.repo.Location().Put(ctx, input.UserID, input.Location, t.locationTTL); err != nil {
			errutil.Handle(ctx, err, "failed to store user location")
		}
	}

	// every admitted message lands in history, even when a later one
	// replaces it in the debounce queue
	if _, err := t.history.Append(ctx, input.UserID, types.RoleUser, input.Text, now); err != nil {
		errutil.Handle(ctx, err, "failed to record user message")
	}

	logging.From(ctx).Info("turn accepted",
		slog.String("user_id", input.UserID.String()),
		slog.Int("text_len", len(input.Text)),
	)

	t.debouncer.Submit(ctx, input.UserID, input.Text)
	return &model.TurnAck{Reason: types.ReasonAccepted}, nil
}

// ProcessNow runs a turn immediately, skipping rate limiting and the
// debounce window. Used for UI-driven inputs such as zone buttons and
// location pins, which are deliberate single actions rather than typing.
func (t *TurnUseCase) ProcessNow(ctx context.Context, input *model.TurnInput) (*model.TurnResult, error) {
	if err := input.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidUserID, err.Error())
	}

	now := input.Now
	if now.IsZero() {
		now = t.now()
	}

	if input.Location != nil {
		if err := t.repo.Location().Put(ctx, input.UserID, input.Location, t.locationTTL); err != nil {
			errutil.Handle(ctx, err, "failed to store user location")
		}
	}

	if _, err := t.history.Append(ctx, input.UserID, types.RoleUser, input.Text, now); err != nil {
		errutil.Handle(ctx, err, "failed to record user message")
	}

	return t.run(ctx, input.UserID, input.Text, input.Zone, now)
}

// StoreLocation records a user's shared position without running a turn.
// Used when a location pin arrives with no prior query to re-run.
func (t *TurnUseCase) StoreLocation(ctx context.Context, userID types.UserID, loc *model.Location) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidUserID, err.Error())
	}
	if loc == nil {
		return goerr.New("location is required")
	}
	return t.repo.Location().Put(ctx, userID, loc, t.locationTTL)
}

// fire is the debounce callback: the payload survived the quiet window.
func (t *TurnUseCase) fire(ctx context.Context, userID types.UserID, payload string) {
	result, err := t.run(ctx, userID, payload, types.ZoneUnknown, t.now())
	if err != nil {
		errutil.Handle(ctx, err, "turn processing failed")
		return
	}
	t.deliver(ctx, result)
}

func (t *TurnUseCase) run(ctx context.Context, userID types.UserID, text string, zone types.Zone, now time.Time) (*model.TurnResult, error) {
	searchText := text
	if isRefinement(text) {
		if prev, ok := t.history.LastUserQuery(ctx, userID, now, text); ok {
			searchText = prev + " " + text
			logging.From(ctx).Info("refinement detected",
				slog.String("text", text),
				slog.String("search_text", searchText),
			)
		}
	}

	loc, err := t.repo.Location().Get(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to load user location")
		loc = nil
	}

	res, fp, err := t.resolve.resolve(ctx, searchText, zone, loc, now)
	if err != nil {
		return nil, err
	}

	result := &model.TurnResult{
		UserID: userID,
		Query:  searchText,
	}
	for _, cand := range res.candidates {
		result.Candidates = append(result.Candidates, *cand)
	}

	if len(res.candidates) == 0 {
		result.Reason = types.ReasonNoMatches
		return result, nil
	}

	answer, err := t.answer(ctx, userID, res, fp, loc, now)
	if err != nil {
		return nil, err
	}
	result.Answer = answer

	if answer != "" {
		if _, err := t.history.Append(ctx, userID, types.RoleAssistant, answer, now); err != nil {
			errutil.Handle(ctx, err, "failed to record assistant answer")
		}
	}

	return result, nil
}

// answer returns the composed reply, reusing the cached one when the same
// resolution was already composed. Without a composer the result carries
// candidates only and the transport renders them.
func (t *TurnUseCase) answer(ctx context.Context, userID types.UserID, res *resolution, fp string, loc *model.Location, now time.Time) (string, error) {
	if t.composer == nil {
		return "", nil
	}
	if cached := res.composedAnswer(); cached != "" {
		logging.From(ctx).Debug("composed answer cache hit")
		return cached, nil
	}

	visible, err := t.history.Visible(ctx, userID, now)
	if err != nil {
		errutil.Handle(ctx, err, "failed to load conversation history")
	}

	answer, err := t.composer.Compose(ctx, compose.Input{
		History:     visible,
		Candidates:  res.candidates,
		HasLocation: loc != nil,
		Now:         now,
	})
	if err != nil {
		return "", err
	}

	t.resolve.storeAnswer(fp, res, answer)
	return answer, nil
}

func (t *TurnUseCase) deliver(ctx context.Context, result *model.TurnResult) {
	if t.responder == nil {
		return
	}
	if err := t.responder.Deliver(ctx, result); err != nil {
		errutil.Handle(ctx, err, "failed to deliver turn result")
	}
}

// refinementKeywords are qualifiers that narrow a previous search rather
// than start a new one.
var refinementKeywords = map[string]struct{}{
	"barato": {}, "baratos": {}, "barata": {}, "baratas": {},
	"economico": {}, "economica": {},
	"caro": {}, "caros": {}, "cara": {}, "caras": {}, "premium": {},
	"cerca": {}, "cercano": {}, "cercana": {}, "cercanos": {}, "cercanas": {},
	"lejos": {}, "otro": {}, "otra": {}, "otros": {}, "otras": {},
	"distinto": {}, "distinta": {},
	"mejor": {}, "mejores": {}, "mas": {}, "menos": {}, "grande": {}, "chico": {},
	"lindo": {}, "linda": {}, "tranquilo": {}, "tranquila": {},
	"aire": {}, "libre": {}, "terraza": {}, "patio": {}, "afuera": {},
	"delivery": {}, "llevar": {}, "rapido": {}, "rapida": {},
}

// isRefinement reports whether the message refines the previous search:
// short, names no category, and either uses a refinement qualifier or is
// too short to stand alone.
func isRefinement(text string) bool {
	words := search.Tokens(text)
	if len(words) > 6 {
		return false
	}

	for _, w := range words {
		if search.IsCategoryTerm(w) {
			return false
		}
	}

	for _, w := range words {
		if _, ok := refinementKeywords[w]; ok {
			return true
		}
	}

	return len(words) <= 2
}

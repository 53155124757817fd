package doc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doctor/pkg/commands"
	"doctor/pkg/logger"
	"doctor/pkg/state"
)

// User-facing follow-up messages.
const (
	msgNoStoredChoice   = "Couldn't find any stored choices for that message"
	msgInvalidChoice    = "Somehow you provided an invalid choice"
	msgMultipleElements = "I found multiple elements for this qualified name"
	msgNoResult         = "I couldn't find any result for '%s'"
)

// MaxChoices is the most candidates a choice prompt offers. Discord select
// menus hold at most 25 options.
const MaxChoices = 25

// DecisionKind is the outcome of Disambiguate.
type DecisionKind int

const (
	// DecisionAnswer means a single candidate was selected.
	DecisionAnswer DecisionKind = iota
	// DecisionNoResult means there were no candidates.
	DecisionNoResult
	// DecisionPrompt means the user has to choose.
	DecisionPrompt
)

// Decision says how to answer a query.
type Decision struct {
	Kind   DecisionKind
	Answer FuzzyQueryResult
}

// Disambiguate applies the tie-break rules in order: a single candidate,
// then a single exact one, then a single case-sensitive exact one. No
// candidates means no result and anything else needs a prompt.
func Disambiguate(candidates []FuzzyQueryResult) Decision {
	if len(candidates) == 1 {
		return Decision{Kind: DecisionAnswer, Answer: candidates[0]}
	}
	if only, ok := unique(candidates, func(c FuzzyQueryResult) bool { return c.Exact }); ok {
		return Decision{Kind: DecisionAnswer, Answer: only}
	}
	if only, ok := unique(candidates, func(c FuzzyQueryResult) bool { return c.CaseSensitiveExact }); ok {
		return Decision{Kind: DecisionAnswer, Answer: only}
	}
	if len(candidates) == 0 {
		return Decision{Kind: DecisionNoResult}
	}
	return Decision{Kind: DecisionPrompt}
}

func unique(candidates []FuzzyQueryResult, keep func(FuzzyQueryResult) bool) (FuzzyQueryResult, bool) {
	var (
		found FuzzyQueryResult
		count int
	)
	for _, c := range candidates {
		if keep(c) {
			found = c
			count++
		}
	}
	return found, count == 1
}

// Distinct drops repeated candidates, keeping the first occurrence.
func Distinct(results []FuzzyQueryResult) []FuzzyQueryResult {
	seen := make(map[FuzzyQueryResult]struct{}, len(results))
	out := make([]FuzzyQueryResult, 0, len(results))
	for _, r := range results {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Request is one lookup.
type Request struct {
	Command          string // command that owns the follow-up components
	Query            string
	OwnerID          string
	ShortDescription bool
	OmitTags         bool
}

// Resolver answers lookups and follow-up choices.
type Resolver struct {
	log      *logger.Logger
	queries  QueryAPI
	loader   ElementLoader
	store    state.Store
	renderer *Renderer
	now      func() time.Time
	newID    func() string
}

// NewResolver creates a resolver.
func NewResolver(log *logger.Logger, queries QueryAPI, loader ElementLoader, store state.Store, renderer *Renderer) *Resolver {
	return &Resolver{
		log:      log,
		queries:  queries,
		loader:   loader,
		store:    store,
		renderer: renderer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Resolve runs a query and replies with the answer, a no-result message or
// a choice prompt. The prompt is only sent once its state is stored.
func (r *Resolver) Resolve(ctx context.Context, req Request, sender commands.Sender) error {
	query := strings.TrimSpace(req.Query)

	start := r.now()
	results, err := r.queries.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("querying %q: %w", query, err)
	}
	took := r.now().Sub(start)

	candidates := Distinct(results)
	decision := Disambiguate(candidates)

	r.log.Debug("Resolved query",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("decision", int(decision.Kind)))

	switch decision.Kind {
	case DecisionAnswer:
		return r.answer(ctx, decision.Answer.QualifiedName, RenderOptions{
			ShortDescription: req.ShortDescription,
			OmitTags:         req.OmitTags,
			QueryDuration:    took,
		}, sender)

	case DecisionNoResult:
		return sender.EditOrReply(ctx, commands.Textf(msgNoResult, query))

	default:
		return r.prompt(ctx, req, candidates, sender)
	}
}

func (r *Resolver) prompt(ctx context.Context, req Request, candidates []FuzzyQueryResult, sender commands.Sender) error {
	if len(candidates) > MaxChoices {
		candidates = candidates[:MaxChoices]
	}
	interaction := &state.ActiveInteraction{
		ID:               r.newID(),
		OwnerID:          req.OwnerID,
		CreatedAt:        r.now(),
		Choices:          make([]state.Choice, 0, len(candidates)),
		ShortDescription: req.ShortDescription,
		OmitTags:         req.OmitTags,
	}
	for _, c := range candidates {
		interaction.Choices = append(interaction.Choices, state.Choice{
			QualifiedName:      c.QualifiedName,
			Exact:              c.Exact,
			CaseSensitiveExact: c.CaseSensitiveExact,
		})
	}

	if err := r.store.Put(ctx, interaction); err != nil {
		return fmt.Errorf("storing interaction: %w", err)
	}

	r.log.Debug("Stored choice prompt",
		zap.String("interaction", interaction.ID),
		zap.String("owner", interaction.OwnerID),
		zap.Int("choices", len(interaction.Choices)))

	return sender.Reply(ctx, r.renderer.RenderPrompt(req.Command, interaction.ID, candidates))
}

// FollowUp resolves a click on a choice prompt. Non-owners get denyText and
// leave the stored state untouched; the owner consumes it even when the
// choice turns out to be invalid.
func (r *Resolver) FollowUp(ctx context.Context, userID, interactionID string, choiceID int, denyText string, sender commands.Sender) error {
	interaction, ok, err := r.store.Get(ctx, interactionID)
	if err != nil {
		return fmt.Errorf("loading interaction: %w", err)
	}
	if !ok {
		return sender.EditOrReply(ctx, commands.Text(msgNoStoredChoice))
	}

	if interaction.OwnerID != userID {
		r.log.Debug("Denied foreign choice",
			zap.String("interaction", interactionID),
			zap.String("user", userID))
		return sender.Deny(ctx, denyText)
	}

	// Another click may have won the race or the entry expired since Get.
	interaction, ok, err = r.store.Take(ctx, interactionID)
	if err != nil {
		return fmt.Errorf("taking interaction: %w", err)
	}
	if !ok {
		return sender.EditOrReply(ctx, commands.Text(msgNoStoredChoice))
	}

	choice, ok := interaction.Choice(choiceID)
	if !ok {
		return sender.EditOrReply(ctx, commands.Text(msgInvalidChoice))
	}

	return r.answer(ctx, choice.QualifiedName, RenderOptions{
		ShortDescription: interaction.ShortDescription,
		OmitTags:         interaction.OmitTags,
	}, sender)
}

// answer loads a single qualified name and renders it.
func (r *Resolver) answer(ctx context.Context, name string, opts RenderOptions, sender commands.Sender) error {
	start := r.now()
	loaded, err := r.loader.FindByQualifiedName(ctx, name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	opts.QueryDuration += r.now().Sub(start)

	switch len(loaded) {
	case 1:
		return sender.EditOrReply(ctx, r.renderer.Render(loaded[0], opts))
	case 0:
		return sender.EditOrReply(ctx, commands.Textf(msgNoResult, name))
	default:
		r.log.Warn("Qualified name maps to several elements",
			zap.String("name", name),
			zap.Int("count", len(loaded)))
		return sender.Reply(ctx, commands.Text(msgMultipleElements))
	}
}

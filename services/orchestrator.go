package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"debatebot/db"
	"debatebot/llm"
	"debatebot/models"
	"debatebot/utils"
	"debatebot/validators"

	"github.com/cenkalti/backoff/v4"
)

// OrchestratorConfig carries the tuning constants for the generation
// pipeline. MaxAttempts counts total generation attempts per step, not
// retries after the first.
type OrchestratorConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Timeout        time.Duration
	HistoryWindow  int // turns of history kept in prompts
}

// Orchestrator sequences one debate turn: extract (new conversations),
// generate, consistency-check, validate, and fall back when the pipeline
// cannot produce an acceptable reply. All generation-path failures are
// absorbed here; callers only ever see a reply (possibly degraded) or a
// hard client error.
type Orchestrator struct {
	store     db.ConversationStore
	extractor *Extractor
	generator *Generator
	checker   ConsistencyChecker
	rules     *validators.Set
	fallbacks *FallbackTable
	cfg       OrchestratorConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOrchestrator(store db.ConversationStore, extractor *Extractor, generator *Generator,
	checker ConsistencyChecker, rules *validators.Set, fallbacks *FallbackTable,
	cfg OrchestratorConfig) *Orchestrator {

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	return &Orchestrator{
		store:     store,
		extractor: extractor,
		generator: generator,
		checker:   checker,
		rules:     rules,
		fallbacks: fallbacks,
		cfg:       cfg,
		locks:     make(map[string]*sync.Mutex),
	}
}

// HandleTurn processes one inbound user message. An empty conversationID
// starts a new conversation; otherwise the turn continues an existing one.
// Turns within a single conversation are serialized; turns of different
// conversations run fully in parallel.
func (o *Orchestrator) HandleTurn(ctx context.Context, conversationID, userMessage, languageHint string) (*models.TurnResult, error) {
	if strings.TrimSpace(conversationID) == "" {
		return o.startConversation(ctx, userMessage, languageHint)
	}
	return o.continueConversation(ctx, conversationID, userMessage)
}

func (o *Orchestrator) startConversation(ctx context.Context, userMessage, languageHint string) (*models.TurnResult, error) {
	extractCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	ex, err := o.extractor.Extract(extractCtx, userMessage)
	cancel()
	if err != nil {
		log.Printf("[ORCHESTRATOR] conv=new stage=extract ok=false reason=%v", err)
		return nil, err
	}

	conv := &models.Conversation{
		Topic:       ex.Topic,
		Category:    ex.Category,
		BotPosition: ex.Position,
		Language:    utils.ResolveLanguage(languageHint, ex.Language, userMessage),
		Status:      models.StatusActive,
		CreatedAt:   time.Now().Unix(),
	}
	id, err := o.store.Create(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	log.Printf("[ORCHESTRATOR] conv=%s stage=extract ok=true topic=%q language=%s", id, ex.Topic, conv.Language)

	reply, degraded := o.produceReply(ctx, id, conv, userMessage)
	if err := o.appendPair(ctx, id, 0, userMessage, reply, degraded); err != nil {
		return nil, err
	}
	return &models.TurnResult{ConversationID: id, Reply: reply, Degraded: degraded, TurnIndex: 0}, nil
}

func (o *Orchestrator) continueConversation(ctx context.Context, id, userMessage string) (*models.TurnResult, error) {
	lock := o.conversationLock(id)
	lock.Lock()
	defer lock.Unlock()

	conv, err := o.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: conversation is closed", db.ErrNotFound)
	}

	turn := conv.NextTurnIndex()
	reply, degraded := o.produceReply(ctx, id, conv, userMessage)
	if err := o.appendPair(ctx, id, turn, userMessage, reply, degraded); err != nil {
		return nil, err
	}
	return &models.TurnResult{ConversationID: id, Reply: reply, Degraded: degraded, TurnIndex: turn}, nil
}

// produceReply runs generate -> consistency -> validators with one repair
// attempt per failing stage, resolving to a fallback entry when the
// pipeline cannot deliver.
func (o *Orchestrator) produceReply(ctx context.Context, id string, conv *models.Conversation, userMessage string) (reply string, degraded bool) {
	req := GenerationRequest{
		Topic:       conv.Topic,
		Position:    conv.BotPosition,
		Language:    conv.Language,
		UserMessage: userMessage,
		History:     conv.LastMessages(o.cfg.HistoryWindow * 2),
	}
	priorBot := conv.BotMessages()

	candidate, err := o.generateWithRetry(ctx, req)
	if err != nil {
		log.Printf("[ORCHESTRATOR] conv=%s stage=generate ok=false reason=%v", id, err)
		return o.fallbackReply(id, conv), true
	}
	log.Printf("[ORCHESTRATOR] conv=%s stage=generate ok=true", id)

	res, _ := o.checker.Check(ctx, candidate, conv.BotPosition, priorBot)
	if !res.Consistent {
		log.Printf("[ORCHESTRATOR] conv=%s stage=consistency ok=false reason=%q", id, res.Reason)
		req.Repair = stayOnPositionClause(conv.BotPosition)
		regenerated, err := o.generateOnce(ctx, req)
		if err != nil {
			log.Printf("[ORCHESTRATOR] conv=%s stage=consistency-repair ok=false reason=%v", id, err)
			return o.fallbackReply(id, conv), true
		}
		if res, _ = o.checker.Check(ctx, regenerated, conv.BotPosition, priorBot); !res.Consistent {
			log.Printf("[ORCHESTRATOR] conv=%s stage=consistency-repair ok=false reason=%q", id, res.Reason)
			return o.fallbackReply(id, conv), true
		}
		candidate = regenerated
		req.Repair = ""
	}

	outcome := o.rules.Validate(validators.Input{
		Candidate:   candidate,
		Topic:       conv.Topic,
		BotPosition: conv.BotPosition,
		PriorBot:    priorBot,
	})
	if !outcome.Passed {
		log.Printf("[ORCHESTRATOR] conv=%s stage=validate ok=false rules=%v", id, outcome.Failed)
		req.Repair = repairClause(outcome.Failed, o.generator.maxWords)
		regenerated, err := o.generateOnce(ctx, req)
		if err != nil {
			log.Printf("[ORCHESTRATOR] conv=%s stage=validate-repair ok=false reason=%v", id, err)
			return o.fallbackReply(id, conv), true
		}
		repaired := o.rules.Validate(validators.Input{
			Candidate:   regenerated,
			Topic:       conv.Topic,
			BotPosition: conv.BotPosition,
			PriorBot:    priorBot,
		})
		if !repaired.Passed {
			log.Printf("[ORCHESTRATOR] conv=%s stage=validate-repair ok=false rules=%v", id, repaired.Failed)
			return o.fallbackReply(id, conv), true
		}
		candidate = regenerated
	}
	log.Printf("[ORCHESTRATOR] conv=%s stage=validate ok=true", id)

	return candidate, false
}

// generateWithRetry attempts generation up to MaxAttempts with exponential
// backoff between attempts. Only transient failures are retried.
func (o *Orchestrator) generateWithRetry(ctx context.Context, req GenerationRequest) (string, error) {
	var reply string

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.cfg.InitialBackoff
	policy.MaxElapsedTime = 0

	op := func() error {
		text, err := o.generateOnce(ctx, req)
		if err != nil {
			if llm.IsTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		reply = text
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(o.cfg.MaxAttempts-1)), ctx))
	return reply, err
}

// generateOnce makes a single generation attempt under the call timeout.
// Repair regenerations use this directly: a failing repair goes straight to
// fallback rather than burning another retry budget.
func (o *Orchestrator) generateOnce(ctx context.Context, req GenerationRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()
	return o.generator.Generate(callCtx, req)
}

func (o *Orchestrator) fallbackReply(id string, conv *models.Conversation) string {
	reply := o.fallbacks.Next(conv.Language, conv.DegradedCount())
	log.Printf("[ORCHESTRATOR] conv=%s stage=fallback language=%s rotation=%d", id, conv.Language, conv.DegradedCount())
	return reply
}

func (o *Orchestrator) appendPair(ctx context.Context, id string, turn int, userMessage, reply string, degraded bool) error {
	now := time.Now().Unix()
	user := models.Message{Role: models.RoleUser, Content: userMessage, TurnIndex: turn, CreatedAt: now}
	bot := models.Message{Role: models.RoleBot, Content: reply, TurnIndex: turn, Degraded: degraded, CreatedAt: now}
	if err := o.store.AppendTurn(ctx, id, user, bot); err != nil {
		return err
	}
	return nil
}

// conversationLock returns the mutex serializing turns for one conversation.
func (o *Orchestrator) conversationLock(id string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	if l, ok := o.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	o.locks[id] = l
	return l
}

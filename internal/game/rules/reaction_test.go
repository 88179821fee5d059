package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"go.uber.org/zap/zaptest"
)

func newTestManager(t *testing.T) (*ReactionManager, *match.Match) {
	t.Helper()
	m, err := match.New([]match.Player{{ID: "A"}, {ID: "B"}, {ID: "C"}})
	require.NoError(t, err)
	return NewReactionManager(m, zaptest.NewLogger(t)), m
}

func countingEffect(counter *int) func(context.Context, ReactionArgs) (ReactionResult, error) {
	return func(context.Context, ReactionArgs) (ReactionResult, error) {
		*counter++
		return ResultNone, nil
	}
}

func TestReactionManager_OnceFiresExactlyOnce(t *testing.T) {
	rm, _ := newTestManager(t)
	ctx := context.Background()

	fired := 0
	id, err := rm.Register(ReactionTemplate{
		ID:              "merchant:1:cardPlayed",
		ListeningFor:    EventCardPlayed,
		PlayerID:        "A",
		Once:            true,
		TriggeredEffect: countingEffect(&fired),
	})
	require.NoError(t, err)
	assert.Equal(t, "merchant:1:cardPlayed", id)

	require.NoError(t, rm.Dispatch(ctx, NewEvent(EventCardPlayed, "A", 2), nil))
	assert.False(t, rm.Live(id), "once template must be removed after firing")

	require.NoError(t, rm.Dispatch(ctx, NewEvent(EventCardPlayed, "A", 3), nil))
	assert.Equal(t, 1, fired)
}

func TestReactionManager_OnceFalseConditionStaysRegistered(t *testing.T) {
	rm, _ := newTestManager(t)
	ctx := context.Background()

	fired := 0
	id, err := rm.Register(ReactionTemplate{
		ListeningFor: EventCardPlayed,
		Once:         true,
		Condition: func(args ReactionArgs) bool {
			return args.Event.CardID == 5
		},
		TriggeredEffect: countingEffect(&fired),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id, "an id is generated when none is given")

	require.NoError(t, rm.Dispatch(ctx, NewEvent(EventCardPlayed, "A", 4), nil))
	assert.True(t, rm.Live(id))
	assert.Equal(t, 0, fired)

	require.NoError(t, rm.Dispatch(ctx, NewEvent(EventCardPlayed, "A", 5), nil))
	assert.False(t, rm.Live(id))
	assert.Equal(t, 1, fired)
}

func TestReactionManager_OnceNotRefiredByReentrantDispatch(t *testing.T) {
	rm, _ := newTestManager(t)
	ctx := context.Background()

	fired := 0
	_, err := rm.Register(ReactionTemplate{
		ID:           "reentrant",
		ListeningFor: EventCardGained,
		Once:         true,
		TriggeredEffect: func(ctx context.Context, args ReactionArgs) (ReactionResult, error) {
			fired++
			return ResultNone, rm.Dispatch(ctx, NewEvent(EventCardGained, "A", 9), args.Context)
		},
	})
	require.NoError(t, err)

	require.NoError(t, rm.Dispatch(ctx, NewEvent(EventCardGained, "A", 8), nil))
	assert.Equal(t, 1, fired)
}

func TestReactionManager_NeverFiresForOtherEventTypes(t *testing.T) {
	rm, _ := newTestManager(t)

	fired := 0
	_, err := rm.Register(ReactionTemplate{ListeningFor: EventStartTurn, TriggeredEffect: countingEffect(&fired)})
	require.NoError(t, err)

	require.NoError(t, rm.Dispatch(context.Background(), NewEvent(EventEndTurn, "A", 0), nil))
	assert.Equal(t, 0, fired)
}

func TestReactionManager_DuplicateIDReplacesInPlace(t *testing.T) {
	rm, _ := newTestManager(t)
	ctx := context.Background()

	var calls []string
	record := func(name string) func(context.Context, ReactionArgs) (ReactionResult, error) {
		return func(context.Context, ReactionArgs) (ReactionResult, error) {
			calls = append(calls, name)
			return ResultNone, nil
		}
	}

	_, err := rm.Register(ReactionTemplate{ID: "dup", ListeningFor: EventCardPlayed, TriggeredEffect: record("old")})
	require.NoError(t, err)
	_, err = rm.Register(ReactionTemplate{ID: "later", ListeningFor: EventCardPlayed, TriggeredEffect: record("later")})
	require.NoError(t, err)
	id, err := rm.Register(ReactionTemplate{ID: "dup", ListeningFor: EventCardPlayed, TriggeredEffect: record("new")})
	require.NoError(t, err)
	assert.Equal(t, "dup", id)

	require.NoError(t, rm.Dispatch(ctx, NewEvent(EventCardPlayed, "A", 1), nil))
	assert.Equal(t, []string{"new", "later"}, calls, "replacement keeps its slot and only one template answers")
	assert.Len(t, rm.Templates(EventCardPlayed), 2)
}

func TestReactionManager_AllowMultipleInstancesKeepsBoth(t *testing.T) {
	rm, _ := newTestManager(t)

	fired := 0
	template := ReactionTemplate{
		ID:                     "caravan:3:startTurn",
		ListeningFor:           EventStartTurn,
		AllowMultipleInstances: true,
		TriggeredEffect:        countingEffect(&fired),
	}
	first, err := rm.Register(template)
	require.NoError(t, err)
	second, err := rm.Register(template)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, rm.Dispatch(context.Background(), NewEvent(EventStartTurn, "A", 0), nil))
	assert.Equal(t, 2, fired)

	rm.Unregister(first)
	assert.False(t, rm.Live(first))
	assert.True(t, rm.Live(second))
}

func TestReactionManager_UnregisterUnknownIsNoop(t *testing.T) {
	rm, _ := newTestManager(t)
	assert.NotPanics(t, func() {
		rm.Unregister("does-not-exist")
		rm.Unregister("does-not-exist")
	})
}

func TestReactionManager_OrderIsStableAndSequential(t *testing.T) {
	rm, m := newTestManager(t)

	var observed int
	_, err := rm.Register(ReactionTemplate{
		ID:           "T1",
		ListeningFor: EventCardPlayed,
		TriggeredEffect: func(_ context.Context, args ReactionArgs) (ReactionResult, error) {
			args.Match.PlayerTreasure += 2
			return ResultNone, nil
		},
	})
	require.NoError(t, err)
	_, err = rm.Register(ReactionTemplate{
		ID:           "T2",
		ListeningFor: EventCardPlayed,
		TriggeredEffect: func(_ context.Context, args ReactionArgs) (ReactionResult, error) {
			observed = args.Match.PlayerTreasure
			return ResultNone, nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, rm.Dispatch(context.Background(), NewEvent(EventCardPlayed, "A", 1), nil))
	assert.Equal(t, 2, observed)
	assert.Equal(t, 2, m.PlayerTreasure)
}

func TestReactionManager_SkipsTemplatesUnregisteredMidDispatch(t *testing.T) {
	rm, _ := newTestManager(t)

	fired := 0
	_, err := rm.Register(ReactionTemplate{
		ID:           "first",
		ListeningFor: EventCardTrashed,
		TriggeredEffect: func(context.Context, ReactionArgs) (ReactionResult, error) {
			rm.Unregister("second")
			return ResultNone, nil
		},
	})
	require.NoError(t, err)
	_, err = rm.Register(ReactionTemplate{ID: "second", ListeningFor: EventCardTrashed, TriggeredEffect: countingEffect(&fired)})
	require.NoError(t, err)

	require.NoError(t, rm.Dispatch(context.Background(), NewEvent(EventCardTrashed, "A", 1), nil))
	assert.Equal(t, 0, fired)
}

func TestReactionManager_ImmunityRecordedInContext(t *testing.T) {
	rm, _ := newTestManager(t)

	_, err := rm.Register(ReactionTemplate{
		ID:           "moat:4:cardPlayed",
		ListeningFor: EventCardPlayed,
		PlayerID:     "B",
		Condition: func(args ReactionArgs) bool {
			return args.Event.PlayerID != args.Reaction.PlayerID
		},
		TriggeredEffect: func(context.Context, ReactionArgs) (ReactionResult, error) {
			return ResultImmunity, nil
		},
	})
	require.NoError(t, err)

	rc := NewReactionContext()
	require.NoError(t, rm.Dispatch(context.Background(), NewEvent(EventCardPlayed, "A", 1), rc))
	assert.True(t, rc.HasImmunity("B"))
	assert.False(t, rc.HasImmunity("C"))

	var nilContext *ReactionContext
	assert.Equal(t, ResultNone, nilContext.Result("B"))
}

func TestReactionManager_EffectErrorPropagates(t *testing.T) {
	rm, _ := newTestManager(t)
	boom := errors.New("delegate failed")

	after := 0
	_, err := rm.Register(ReactionTemplate{
		ID:           "fails",
		ListeningFor: EventCardGained,
		TriggeredEffect: func(context.Context, ReactionArgs) (ReactionResult, error) {
			return ResultNone, boom
		},
	})
	require.NoError(t, err)
	_, err = rm.Register(ReactionTemplate{ID: "after", ListeningFor: EventCardGained, TriggeredEffect: countingEffect(&after)})
	require.NoError(t, err)

	err = rm.Dispatch(context.Background(), NewEvent(EventCardGained, "A", 1), nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, after)
}

func TestReactionManager_RegisterValidation(t *testing.T) {
	rm, _ := newTestManager(t)

	_, err := rm.Register(ReactionTemplate{ID: "no-event", TriggeredEffect: countingEffect(new(int))})
	assert.ErrorIs(t, err, ErrInvalidReaction)

	_, err = rm.Register(ReactionTemplate{ID: "no-effect", ListeningFor: EventStartTurn})
	assert.ErrorIs(t, err, ErrInvalidReaction)
}

func TestReactionManager_RegisterForAndSweep(t *testing.T) {
	rm, _ := newTestManager(t)
	card := &cards.Card{ID: 12, Key: "lighthouse", Owner: "A"}

	id, err := rm.RegisterFor(card, EventCardPlayed, ReactionTemplate{
		Lifetime:        LifetimeWhileInPlay,
		TriggeredEffect: countingEffect(new(int)),
	})
	require.NoError(t, err)
	assert.Equal(t, "lighthouse:12:cardPlayed", id)

	templates := rm.Templates(EventCardPlayed)
	require.Len(t, templates, 1)
	assert.Equal(t, "A", templates[0].PlayerID)
	assert.Equal(t, cards.ID(12), templates[0].SourceCardID)
	assert.False(t, templates[0].System())

	sysID, err := rm.RegisterSystem(ReactionTemplate{
		ID:              "system:12",
		ListeningFor:    EventStartTurnPhase,
		SourceCardID:    12,
		TriggeredEffect: countingEffect(new(int)),
	})
	require.NoError(t, err)
	assert.True(t, rm.Templates(EventStartTurnPhase)[0].System())

	assert.Empty(t, rm.UnregisterBySource(12, LifetimeWhileInHand))
	assert.Equal(t, []string{id}, rm.UnregisterBySource(12, LifetimeWhileInPlay))
	assert.False(t, rm.Live(id))
	assert.True(t, rm.Live(sysID), "manual lifetime templates are not swept")
}

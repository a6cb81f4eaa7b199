package progress

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/user"
)

type repoStub struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func newRepoStub() *repoStub {
	return &repoStub{snaps: make(map[string]Snapshot)}
}

func (r *repoStub) GetSnapshot(_ context.Context, userID string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snaps[userID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (r *repoStub) UpdateSnapshot(_ context.Context, userID string, apply func(Snapshot) Snapshot) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := apply(r.snaps[userID])
	r.snaps[userID] = next
	return next, nil
}

type mailSvcStub struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

func (m *mailSvcStub) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		m.sent = append(m.sent, *msg)
	}
}

func setup() (Service, *repoStub, *mailSvcStub) {
	repo := newRepoStub()
	mailSvc := &mailSvcStub{}
	svc := NewService(repo, mailSvc, core.NewTestConfig())
	return svc, repo, mailSvc
}

func TestServiceRecord(t *testing.T) {
	svc, _, mailSvc := setup()
	usr := user.User{ID: "u1", Name: "Aline", Email: "aline@test.test"}
	ctx := context.Background()

	snap, ms, err := svc.Record(ctx, usr, Submission{
		CaseID:      "c1",
		Category:    "chest-pain",
		Specialties: []string{"em"},
		Correct:     true,
		Score:       100,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, snap.CasesCompleted)
	assert.True(t, ms.FirstCase)

	// first-case milestone mail went out exactly once
	assert.Len(t, mailSvc.sent, 1)
	assert.Contains(t, mailSvc.sent[0].BodyStr, "first case")

	// a second incorrect submission fires no new milestone mail
	snap, ms, err = svc.Record(ctx, usr, Submission{CaseID: "c2", Category: "chest-pain", Correct: false})
	assert.NoError(t, err)
	assert.Equal(t, 2, snap.CasesCompleted)
	assert.Equal(t, 0, snap.CurrentStreak)
	assert.False(t, ms.FirstCase)
	assert.Len(t, mailSvc.sent, 1)
}

func TestServiceRecordStreakMailNotRepeated(t *testing.T) {
	svc, _, mailSvc := setup()
	usr := user.User{ID: "u1", Name: "Aline", Email: "aline@test.test"}
	ctx := context.Background()

	var ms Milestones
	var err error
	for i := 0; i < 7; i++ {
		_, ms, err = svc.Record(ctx, usr, Submission{Category: "trauma", Correct: true})
		assert.NoError(t, err)
	}

	// the milestone set itself keeps reporting the streak (level-triggered)...
	assert.True(t, ms.Streak5)

	// ...but mails only fired on the crossings: first case (+perfect), streak 5,
	// category mastery at the 5th correct answer
	var streakMails int
	for _, msg := range mailSvc.sent {
		if strings.Contains(msg.BodyStr, "in a row") {
			streakMails++
		}
	}
	assert.Equal(t, 1, streakMails)
}

func TestServiceGet(t *testing.T) {
	svc, repo, _ := setup()
	ctx := context.Background()

	// no submissions yet: zero snapshot, no error
	snap, ms, err := svc.Get(ctx, "nobody")
	assert.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)
	assert.False(t, ms.FirstCase)

	repo.snaps["u1"] = Snapshot{CasesCompleted: 1, TotalCorrect: 1, Accuracy: 100, CurrentStreak: 1}
	snap, ms, err = svc.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, 1, snap.CasesCompleted)
	assert.True(t, ms.FirstCase)
}

func TestNewlyAchieved(t *testing.T) {
	prev := Milestones{Streak5: true, CategoryComplete: []string{"trauma"}}
	next := Milestones{Streak5: true, Streak10: true, CategoryComplete: []string{"chest-pain", "trauma"}}

	newly := newlyAchieved(prev, next)
	assert.False(t, newly.Streak5)
	assert.True(t, newly.Streak10)
	assert.Equal(t, []string{"chest-pain"}, newly.CategoryComplete)
}

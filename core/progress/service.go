package progress

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/user"
)

var ErrNotFound = errors.New("progress snapshot not found")

type (
	// Repository persists one Snapshot per user.
	//
	// UpdateSnapshot must serialize concurrent updates for the same user
	// (row lock, optimistic version or equivalent): apply receives the
	// current snapshot (zero value when none exists yet) and its result is
	// what gets stored. A read-modify-write without that guarantee loses
	// updates.
	Repository interface {
		GetSnapshot(ctx context.Context, userID string) (Snapshot, error)
		UpdateSnapshot(ctx context.Context, userID string, apply func(Snapshot) Snapshot) (Snapshot, error)
	}

	Service interface {
		// Record applies one submission to the user's snapshot and returns
		// the new snapshot with its milestone set.
		Record(ctx context.Context, usr user.User, sub Submission) (Snapshot, Milestones, error)
		// Get returns the user's current snapshot and milestones; a user with
		// no submissions yet gets the zero snapshot.
		Get(ctx context.Context, userID string) (Snapshot, Milestones, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) Record(ctx context.Context, usr user.User, sub Submission) (Snapshot, Milestones, error) {
	var prev Snapshot
	next, err := svc.repo.UpdateSnapshot(ctx, usr.ID, func(p Snapshot) Snapshot {
		prev = p
		return Apply(p, sub)
	})
	if err != nil {
		return Snapshot{}, Milestones{}, errors.Wrap(err, "updating snapshot")
	}

	ms := Evaluate(next)

	// Evaluate is level-triggered; notification de-duplication lives here.
	if newly := newlyAchieved(Evaluate(prev), ms); !newly.empty() {
		svc.sendMilestoneMail(usr, newly)
	}
	return next, ms, nil
}

func (svc *service) Get(ctx context.Context, userID string) (Snapshot, Milestones, error) {
	snap, err := svc.repo.GetSnapshot(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			snap = Snapshot{}
		} else {
			return Snapshot{}, Milestones{}, errors.Wrap(err, "getting snapshot")
		}
	}
	return snap, Evaluate(snap), nil
}

// newlyAchieved keeps only the milestones that did not hold before this update.
func newlyAchieved(prev, next Milestones) Milestones {
	newly := Milestones{
		FirstCase:    next.FirstCase && !prev.FirstCase,
		PerfectScore: next.PerfectScore && !prev.PerfectScore,
		Streak5:      next.Streak5 && !prev.Streak5,
		Streak10:     next.Streak10 && !prev.Streak10,
	}
	prevCats := make(map[string]bool, len(prev.CategoryComplete))
	for _, c := range prev.CategoryComplete {
		prevCats[c] = true
	}
	for _, c := range next.CategoryComplete {
		if !prevCats[c] {
			newly.CategoryComplete = append(newly.CategoryComplete, c)
		}
	}
	return newly
}

func (ms Milestones) empty() bool {
	return !ms.FirstCase && !ms.PerfectScore && !ms.Streak5 && !ms.Streak10 && len(ms.CategoryComplete) == 0
}

func (svc *service) sendMilestoneMail(usr user.User, newly Milestones) {
	var lines []string
	if newly.FirstCase {
		lines = append(lines, "You completed your first case!")
	}
	if newly.PerfectScore {
		lines = append(lines, "Perfect accuracy so far. Keep it up!")
	}
	if newly.Streak10 {
		lines = append(lines, "10 correct answers in a row!")
	} else if newly.Streak5 {
		lines = append(lines, "5 correct answers in a row!")
	}
	for _, cat := range newly.CategoryComplete {
		lines = append(lines, fmt.Sprintf("Category mastered: %s", cat))
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "New milestone unlocked",
		BodyStr: fmt.Sprintf("Hi %s,\n\n%s\n", usr.Name, strings.Join(lines, "\n")),
	}
	svc.mailSvc.SendMessages(msg)
}

package service

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/lb1717/vootes/internal/models"
)

type fakeItemStore struct {
	mu      sync.Mutex
	items   map[string][]models.Item
	upvotes map[string]int
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{
		items:   make(map[string][]models.Item),
		upvotes: make(map[string]int),
	}
}

func (f *fakeItemStore) add(categoryID string, items ...models.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[categoryID] = append(f.items[categoryID], items...)
}

func (f *fakeItemStore) ListByCategory(categoryID string) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Item, len(f.items[categoryID]))
	copy(out, f.items[categoryID])
	return out, nil
}

func (f *fakeItemStore) UpdateScore(categoryID, itemID string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items[categoryID] {
		if f.items[categoryID][i].ID == itemID {
			f.items[categoryID][i].IndexScore = score
		}
	}
	return nil
}

func (f *fakeItemStore) IncrementUpvotes(itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upvotes[itemID]++
	return nil
}

func (f *fakeItemStore) score(categoryID, itemID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items[categoryID] {
		if it.ID == itemID {
			return it.IndexScore
		}
	}
	return -1
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[string]*models.Category
	upvotes    map[string]int
}

func newFakeCategoryStore(categories ...*models.Category) *fakeCategoryStore {
	f := &fakeCategoryStore{
		categories: make(map[string]*models.Category),
		upvotes:    make(map[string]int),
	}
	for _, c := range categories {
		f.categories[c.ID] = c
	}
	return f
}

func (f *fakeCategoryStore) List(search string) ([]*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) FindByID(id string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories[id], nil
}

func (f *fakeCategoryStore) IncrementUpvotes(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upvotes[id]++
	return nil
}

func (f *fakeCategoryStore) TotalUpvotes() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, n := range f.upvotes {
		total += int64(n)
	}
	return total, nil
}

func newTestGameService(items *fakeItemStore, categories *fakeCategoryStore) *GameService {
	writer := NewVoteWriter(items, categories, nil, nil)
	svc := NewGameService(items, categories, NewRatingService(), writer, NewAnalytics())
	svc.seedSource = rand.NewSource(42)
	return svc
}

func seedCategory(items *fakeItemStore, categoryID string, scores ...int) {
	for i, score := range scores {
		items.add(categoryID, models.Item{
			ID:         string(rune('a' + i)),
			CategoryID: categoryID,
			Name:       "item-" + string(rune('a'+i)),
			IndexScore: score,
		})
	}
}

func TestGameService_StartSession(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000, 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, err := svc.StartSession("cat-1", ModeLadder)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if snap.State != SessionStateActive {
		t.Errorf("state = %s, want %s", snap.State, SessionStateActive)
	}
	if snap.Pair[0] == nil || snap.Pair[1] == nil {
		t.Fatal("expected an opening matchup")
	}
	if snap.Pair[0].ID == snap.Pair[1].ID {
		t.Error("opening matchup must hold two distinct items")
	}
	if len(snap.Pool) != 4 {
		t.Errorf("pool size = %d, want 4", len(snap.Pool))
	}
	if svc.SessionCount() != 1 {
		t.Errorf("session count = %d, want 1", svc.SessionCount())
	}
}

func TestGameService_StartSessionUnknownCategory(t *testing.T) {
	svc := newTestGameService(newFakeItemStore(), newFakeCategoryStore())

	_, err := svc.StartSession("missing", ModeLadder)
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestGameService_DegeneratePool(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Lonely"})
	svc := newTestGameService(items, categories)

	snap, err := svc.StartSession("cat-1", ModeLadder)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if snap.State != SessionStateActive {
		t.Errorf("state = %s, want %s", snap.State, SessionStateActive)
	}
	if snap.Pair[0] != nil || snap.Pair[1] != nil {
		t.Error("a one-item category must not produce a matchup")
	}

	// Votes against an empty matchup are silently ignored.
	after, err := svc.SubmitVote(snap.ID, 0)
	if err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}
	if after.WinStreak != 0 || after.State != SessionStateActive {
		t.Errorf("vote on empty matchup changed state: streak=%d state=%s",
			after.WinStreak, after.State)
	}
	if items.score("cat-1", "a") != 1000 {
		t.Error("vote on empty matchup must not touch scores")
	}
}

func TestGameService_SubmitVote(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000, 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, err := svc.StartSession("cat-1", ModeLadder)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	winner := snap.Pair[0]
	loser := snap.Pair[1]

	after, err := svc.SubmitVote(snap.ID, 0)
	if err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	var winnerScore, loserScore int
	for _, it := range after.Pool {
		switch it.ID {
		case winner.ID:
			winnerScore = it.IndexScore
		case loser.ID:
			loserScore = it.IndexScore
		}
	}
	if winnerScore != 1016 {
		t.Errorf("winner score = %d, want 1016", winnerScore)
	}
	if loserScore != 984 {
		t.Errorf("loser score = %d, want 984", loserScore)
	}
	if after.WinStreak != 1 {
		t.Errorf("win streak = %d, want 1", after.WinStreak)
	}
	if after.State != SessionStateActive {
		t.Errorf("state = %s, want %s", after.State, SessionStateActive)
	}

	// The write-behind eventually lands in the store.
	svc.writer.Flush()
	if got := items.score("cat-1", winner.ID); got != 1016 {
		t.Errorf("persisted winner score = %d, want 1016", got)
	}
	if got := items.score("cat-1", loser.ID); got != 984 {
		t.Errorf("persisted loser score = %d, want 984", got)
	}
	if items.upvotes[winner.ID] != 1 {
		t.Errorf("winner upvotes = %d, want 1", items.upvotes[winner.ID])
	}
	if categories.upvotes["cat-1"] != 1 {
		t.Errorf("category upvotes = %d, want 1", categories.upvotes["cat-1"])
	}
}

func TestGameService_SubmitVoteInvalidIndex(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)

	for _, idx := range []int{-1, 2, 17} {
		if _, err := svc.SubmitVote(snap.ID, idx); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("winnerIdx %d: err = %v, want ErrInvalidInput", idx, err)
		}
	}
}

func TestGameService_SubmitVoteUnknownSession(t *testing.T) {
	svc := newTestGameService(newFakeItemStore(), newFakeCategoryStore())

	if _, err := svc.SubmitVote("missing", 0); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGameService_WinStreakUnlocksLockIn(t *testing.T) {
	items := newFakeItemStore()
	// Five low items plus seven far stronger ones: the streaking winner
	// cannot reach the top five, so only the streak can grant eligibility.
	seedCategory(items, "cat-1",
		1000, 1001, 1002, 1003, 1004,
		3000, 3001, 3002, 3003, 3004, 3005, 3006)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Underdogs"})
	svc := newTestGameService(items, categories)

	snap, err := svc.StartSession("cat-1", ModeLadder)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	for vote := 1; vote <= lockInStreak; vote++ {
		snap, err = svc.SubmitVote(snap.ID, 0)
		if err != nil {
			t.Fatalf("vote %d failed: %v", vote, err)
		}
		if snap.WinStreak != vote {
			t.Fatalf("vote %d: streak = %d, want %d", vote, snap.WinStreak, vote)
		}
		wantEligible := vote >= lockInStreak
		if snap.LockInEligible != wantEligible {
			t.Errorf("vote %d: eligible = %v, want %v", vote, snap.LockInEligible, wantEligible)
		}
	}
}

func TestGameService_TopRankUnlocksLockIn(t *testing.T) {
	items := newFakeItemStore()
	// Four items: any winner sits inside the top-five window immediately.
	seedCategory(items, "cat-1", 1000, 1000, 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Small"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)

	after, err := svc.SubmitVote(snap.ID, 0)
	if err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}
	if !after.LockInEligible {
		t.Error("a top-five winner must be eligible after a single win")
	}
	if after.WinStreak != 1 {
		t.Errorf("streak = %d, want 1", after.WinStreak)
	}
}

func TestGameService_LockInAsNumberOne(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1100, 1200, 1300, 1400, 1500)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)

	lockedID := "f" // the 1500 item
	after, err := svc.LockInAsNumberOne(snap.ID, lockedID)
	if err != nil {
		t.Fatalf("LockInAsNumberOne failed: %v", err)
	}

	var lockedScore int
	for _, it := range after.Pool {
		if it.ID == lockedID {
			lockedScore = it.IndexScore
		}
	}
	if lockedScore <= 1500 {
		t.Errorf("locked-in item score = %d, want a forced-win gain above 1500", lockedScore)
	}

	if after.State != SessionStateActive {
		t.Errorf("state = %s, want %s", after.State, SessionStateActive)
	}
	if after.WinStreak != 1 {
		t.Errorf("streak = %d, want 1", after.WinStreak)
	}
	if after.LockInEligible {
		t.Error("lock-in must clear eligibility")
	}
	if after.Pair[0] == nil || after.Pair[1] == nil {
		t.Fatal("session must restart with a fresh matchup")
	}
	if after.Pair[0].ID == lockedID || after.Pair[1].ID == lockedID {
		t.Error("restart matchup must come from the lower half, not the locked-in item")
	}

	svc.writer.Flush()
	if got := items.score("cat-1", lockedID); got != lockedScore {
		t.Errorf("persisted locked-in score = %d, want %d", got, lockedScore)
	}
}

func TestGameService_LockInUnknownItem(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)

	if _, err := svc.LockInAsNumberOne(snap.ID, "nope"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestGameService_SwitchMode(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000, 1000, 1000, 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)
	snap, err := svc.SubmitVote(snap.ID, 0)
	if err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	scoresBefore := map[string]int{}
	for _, it := range snap.Pool {
		scoresBefore[it.ID] = it.IndexScore
	}

	after, err := svc.SwitchMode(snap.ID, ModeRandom)
	if err != nil {
		t.Fatalf("SwitchMode failed: %v", err)
	}

	if after.Mode != ModeRandom {
		t.Errorf("mode = %s, want %s", after.Mode, ModeRandom)
	}
	if after.WinStreak != 0 || after.LockInEligible {
		t.Errorf("mode switch must reset streak state: streak=%d eligible=%v",
			after.WinStreak, after.LockInEligible)
	}
	if after.Pair[0] == nil || after.Pair[1] == nil {
		t.Fatal("mode switch must reseed a matchup")
	}

	// Scores carry across the switch untouched.
	for _, it := range after.Pool {
		if it.IndexScore != scoresBefore[it.ID] {
			t.Errorf("item %s score changed on mode switch: %d → %d",
				it.ID, scoresBefore[it.ID], it.IndexScore)
		}
	}
}

func TestGameService_EndSession(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)
	svc.EndSession(snap.ID)

	if svc.SessionCount() != 0 {
		t.Errorf("session count = %d, want 0", svc.SessionCount())
	}
	if _, err := svc.GetSession(snap.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGameService_CleanupIdle(t *testing.T) {
	items := newFakeItemStore()
	seedCategory(items, "cat-1", 1000, 1000)
	categories := newFakeCategoryStore(&models.Category{ID: "cat-1", Name: "Burgers"})
	svc := newTestGameService(items, categories)

	snap, _ := svc.StartSession("cat-1", ModeLadder)

	sess, err := svc.session(snap.ID)
	if err != nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	sess.LastActivity = time.Now().Add(-time.Hour)

	svc.cleanupIdle(30 * time.Minute)

	if svc.SessionCount() != 0 {
		t.Errorf("session count after cleanup = %d, want 0", svc.SessionCount())
	}
}

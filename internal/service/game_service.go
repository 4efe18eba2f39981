package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lb1717/vootes/internal/models"
)

const (
	// lockInStreak 연승으로 1위 확정 자격을 얻는 기준
	lockInStreak = 5
	// topRankWindow 상위권 진입으로 확정 자격을 얻는 순위 범위
	topRankWindow = 5
)

// GameService 카테고리별 투표 세션의 생명주기 관리
// 세션은 프로세스 로컬이고 카테고리를 떠나면 파기된다
type GameService struct {
	items      ItemStore
	categories CategoryStore
	rating     *RatingService
	writer     *VoteWriter
	analytics  *Analytics
	logger     *zap.Logger

	// 테스트에서 고정 시드 주입용 (nil이면 세션마다 시간 기반 시드)
	seedSource rand.Source

	mu       sync.RWMutex
	sessions map[string]*GameSession

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	runMu    sync.Mutex
}

// NewGameService GameService 생성
func NewGameService(
	items ItemStore,
	categories CategoryStore,
	rating *RatingService,
	writer *VoteWriter,
	analytics *Analytics,
) *GameService {
	logger, _ := zap.NewProduction()

	return &GameService{
		items:      items,
		categories: categories,
		rating:     rating,
		writer:     writer,
		analytics:  analytics,
		logger:     logger,
		sessions:   make(map[string]*GameSession),
		stopChan:   make(chan struct{}),
	}
}

// SessionSnapshot 핸들러/UI로 내보내는 세션 상태 사본
type SessionSnapshot struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"categoryId"`
	Mode           Mode            `json:"mode"`
	State          SessionState    `json:"state"`
	Pair           [2]*models.Item `json:"pair"`
	Pool           []models.Item   `json:"pool"`
	WinStreak      int             `json:"winStreak"`
	LockInEligible bool            `json:"lockInEligible"`
}

// StartSession 카테고리 선택 시 새 세션 구성
// 아이템 풀을 가져와 하위 구간에서 첫 매치업을 뽑는다
func (s *GameService) StartSession(categoryID string, mode Mode) (*SessionSnapshot, error) {
	category, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	sess := &GameSession{
		ID:           uuid.NewString(),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Mode:         mode,
		State:        SessionStateLoading,
		rng:          s.newRNG(),
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}
	sess.selector = NewSelector(mode, sess.rng)
	sess.resetUsed()

	items, err := s.items.ListByCategory(categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	sess.Pool = items

	// 아이템이 2개 미만이면 매치업 없이도 유효한 퇴화 상태
	if len(items) >= 2 {
		sess.selector.SeedPair(sess)
	} else {
		sess.setPair(nil, nil)
	}
	sess.State = SessionStateActive

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.analytics.CategorySelect(category.Name)
	s.logger.Info("Session started",
		zap.String("sessionId", sess.ID),
		zap.String("categoryId", category.ID),
		zap.String("mode", string(mode)),
		zap.Int("poolSize", len(items)))

	return snapshotOf(sess), nil
}

// SubmitVote 투표 결과 반영: 레이팅 갱신 → 다음 매치업 선택 → 비동기 영속화
// 매치업이 없거나 처리 중이면 조용히 무시한다 (더블클릭 등 UI 타이밍 레이스)
func (s *GameService) SubmitVote(sessionID string, winnerIdx int) (*SessionSnapshot, error) {
	if winnerIdx != 0 && winnerIdx != 1 {
		return nil, ErrInvalidInput
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.HasPair() || sess.State != SessionStateActive {
		return snapshotOf(sess), nil
	}

	sess.State = SessionStateResolving

	winner := *sess.CurrentPair[winnerIdx]
	loser := *sess.CurrentPair[1-winnerIdx]

	updatedWinner, updatedLoser := s.rating.UpdateRatings(winner, loser)

	// 셀렉터가 옛 점수를 보지 않도록 풀을 먼저 갱신
	sess.mergeScores(updatedWinner, updatedLoser)

	s.trackStreak(sess, winner.ID)

	winnerAfter, _ := sess.itemByID(winner.ID)
	sess.selector.NextPair(sess, winnerAfter, winnerIdx)

	sess.LastActivity = time.Now()
	sess.State = SessionStateActive

	s.writer.PersistOutcome(sess.CategoryID, updatedWinner, updatedLoser)
	s.analytics.Vote(sess.CategoryName, winner.Name, loser.Name)

	return snapshotOf(sess), nil
}

// trackStreak 연승 기록과 1위 확정 자격 갱신
func (s *GameService) trackStreak(sess *GameSession, winnerID string) {
	if sess.CurrentWinnerID == winnerID {
		sess.WinStreak++
	} else {
		sess.WinStreak = 1
		sess.CurrentWinnerID = winnerID
	}

	eligible := sess.WinStreak >= lockInStreak
	if !eligible {
		if _, inTop := sess.topIDs(topRankWindow)[winnerID]; inTop {
			eligible = true
		}
	}
	sess.LockInEligible = eligible
}

// LockInAsNumberOne 사용자가 아이템을 세션의 1위로 확정
// 하위 절반에서 뽑은 상대에 대한 강제 승리 1회로 처리하고 세션을 하위 구간에서 재시작
func (s *GameService) LockInAsNumberOne(sessionID, itemID string) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.Pool) < 2 || sess.State != SessionStateActive {
		return snapshotOf(sess), nil
	}

	item, ok := sess.itemByID(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	sess.State = SessionStateLockedIn

	challenger, ok := lowerHalfOpponent(sess.rng, sess.Pool, item.ID)
	if !ok {
		sess.State = SessionStateActive
		return snapshotOf(sess), nil
	}

	updatedWinner, updatedLoser := s.rating.UpdateRatings(item, challenger)
	sess.mergeScores(updatedWinner, updatedLoser)

	// 하위 절반에서 새 매치업을 뽑아 세션을 새로 시작
	a, b := lowerHalfPair(sess.rng, sess.Pool)
	sess.resetUsed()
	sess.setPair(a, b)
	sess.markUsed(a, b)

	sess.CurrentWinnerID = ""
	sess.WinStreak = 1
	sess.LockInEligible = false
	sess.LastActivity = time.Now()
	sess.State = SessionStateActive

	s.writer.PersistOutcome(sess.CategoryID, updatedWinner, updatedLoser)
	s.analytics.LockIn(sess.CategoryName, item.Name)

	return snapshotOf(sess), nil
}

// SwitchMode 래더/랜덤 전환: 사용 기록을 비우고 새 모드 규칙으로 첫 매치업 재구성
// 아이템 점수는 건드리지 않는다
func (s *GameService) SwitchMode(sessionID string, mode Mode) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Mode = mode
	sess.selector = NewSelector(mode, sess.rng)
	sess.resetUsed()
	sess.NextPair = [2]*models.Item{}

	if len(sess.Pool) >= 2 {
		sess.selector.SeedPair(sess)
	} else {
		sess.setPair(nil, nil)
	}

	sess.CurrentWinnerID = ""
	sess.WinStreak = 0
	sess.LockInEligible = false
	sess.LastActivity = time.Now()
	sess.State = SessionStateActive

	return snapshotOf(sess), nil
}

// EndSession 카테고리 이탈: 세션 파기, 어떤 상태도 승계하지 않음
func (s *GameService) EndSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; exists {
		delete(s.sessions, sessionID)
		s.logger.Info("Session ended", zap.String("sessionId", sessionID))
	}
}

// GetSession 현재 세션 상태 조회
func (s *GameService) GetSession(sessionID string) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return snapshotOf(sess), nil
}

// StartJanitor 방치된 세션을 주기적으로 정리하는 백그라운드 루프 시작
func (s *GameService) StartJanitor(interval, idleTimeout time.Duration) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return
	}
	s.running = true
	s.runMu.Unlock()

	s.logger.Info("Starting session janitor",
		zap.Duration("interval", interval),
		zap.Duration("idleTimeout", idleTimeout))

	s.wg.Add(1)
	go s.janitorLoop(interval, idleTimeout)
}

// StopJanitor 백그라운드 루프 중지
func (s *GameService) StopJanitor() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	s.runMu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Session janitor stopped")
}

// janitorLoop 주기적 정리 실행
func (s *GameService) janitorLoop(interval, idleTimeout time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupIdle(idleTimeout)
		case <-s.stopChan:
			return
		}
	}
}

// cleanupIdle idleTimeout보다 오래 조용한 세션 제거
func (s *GameService) cleanupIdle(idleTimeout time.Duration) {
	cutoff := time.Now().Add(-idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("Cleaned up idle sessions", zap.Int("removed", removed))
	}
}

// SessionCount 활성 세션 수
func (s *GameService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *GameService) session(sessionID string) (*GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *GameService) newRNG() *rand.Rand {
	if s.seedSource != nil {
		return rand.New(rand.NewSource(s.seedSource.Int63()))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// snapshotOf 세션의 외부 노출용 사본 생성 (호출자가 세션 락을 잡고 있어야 함)
func snapshotOf(sess *GameSession) *SessionSnapshot {
	snap := &SessionSnapshot{
		ID:             sess.ID,
		CategoryID:     sess.CategoryID,
		Mode:           sess.Mode,
		State:          sess.State,
		WinStreak:      sess.WinStreak,
		LockInEligible: sess.LockInEligible,
	}

	for i, it := range sess.CurrentPair {
		if it != nil {
			itemCopy := *it
			snap.Pair[i] = &itemCopy
		}
	}

	snap.Pool = make([]models.Item, len(sess.Pool))
	copy(snap.Pool, sess.Pool)

	return snap
}

// lowerHalfOpponent 하위 절반에서 excludeID가 아닌 아이템 균등 추출
// 하위 절반이 비면 풀 전체에서 아무거나
func lowerHalfOpponent(rng *rand.Rand, pool []models.Item, excludeID string) (models.Item, bool) {
	sorted := sortedByScoreAsc(pool)
	half := int(math.Ceil(float64(len(sorted)) / 2.0))

	var candidates []models.Item
	for _, it := range sorted[:half] {
		if it.ID != excludeID {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		for _, it := range pool {
			if it.ID != excludeID {
				candidates = append(candidates, it)
			}
		}
	}
	if len(candidates) == 0 {
		return models.Item{}, false
	}

	return candidates[rng.Intn(len(candidates))], true
}

// lowerHalfPair 하위 절반에서 서로 다른 2개 추출
func lowerHalfPair(rng *rand.Rand, pool []models.Item) (*models.Item, *models.Item) {
	if len(pool) < 2 {
		return nil, nil
	}

	sorted := sortedByScoreAsc(pool)
	half := int(math.Ceil(float64(len(sorted)) / 2.0))
	lowerHalf := sorted[:half]

	// 하위 절반이 1개뿐이면 나머지 풀에서 상대를 채운다
	if len(lowerHalf) < 2 {
		first := lowerHalf[0]
		rest := make([]models.Item, 0, len(sorted)-1)
		for _, it := range sorted {
			if it.ID != first.ID {
				rest = append(rest, it)
			}
		}
		second := rest[rng.Intn(len(rest))]
		return &first, &second
	}

	i := rng.Intn(len(lowerHalf))
	j := rng.Intn(len(lowerHalf) - 1)
	if j >= i {
		j++
	}
	a, b := lowerHalf[i], lowerHalf[j]
	return &a, &b
}

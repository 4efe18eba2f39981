package service

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/lb1717/vootes/internal/models"
)

// Mode 매치메이킹 정책
type Mode string

const (
	// ModeLadder 승자가 남고 점점 강한 상대가 나오는 모드
	ModeLadder Mode = "ladder"
	// ModeRandom 점수와 무관하게 균등 추출하는 모드
	ModeRandom Mode = "random"
)

// ParseMode 문자열을 Mode로 변환 (빈 값은 ladder)
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeLadder, "":
		return ModeLadder, true
	case ModeRandom:
		return ModeRandom, true
	}
	return "", false
}

// SessionState 카테고리 투표 세션 상태
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateLoading   SessionState = "loading"
	SessionStateActive    SessionState = "active"
	SessionStateResolving SessionState = "resolving"
	SessionStateLockedIn  SessionState = "locked_in"
)

// GameSession 카테고리 하나에 대한 투표 세션 (프로세스 로컬, 저장 안 함)
// 카테고리를 떠나면 통째로 버려진다
type GameSession struct {
	mu sync.Mutex

	ID           string
	CategoryID   string
	CategoryName string
	Mode         Mode
	State        SessionState

	selector MatchupSelector
	rng      *rand.Rand

	// 세션 생성 시점의 아이템 스냅샷, 투표마다 인메모리로 갱신
	Pool []models.Item

	// 현재 표시 중인 매치업 (아이템 2개 미만이면 둘 다 nil)
	CurrentPair [2]*models.Item

	// 랜덤 모드 전용: 미리 뽑아둔 다음 매치업
	NextPair [2]*models.Item

	// 래더 진행 중 이미 등장한 아이템/매치업
	UsedItemIDs  map[string]struct{}
	UsedMatchups map[string]struct{}

	// 연승 추적과 1위 확정 자격
	CurrentWinnerID string
	WinStreak       int
	LockInEligible  bool

	CreatedAt    time.Time
	LastActivity time.Time
}

// matchupKey 순서 무관한 매치업 키
func matchupKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// resetUsed 사용 기록 초기화
func (s *GameSession) resetUsed() {
	s.UsedItemIDs = make(map[string]struct{})
	s.UsedMatchups = make(map[string]struct{})
}

// markUsed 매치업과 양쪽 아이템을 사용된 것으로 기록
func (s *GameSession) markUsed(a, b *models.Item) {
	if a == nil || b == nil {
		return
	}
	s.UsedItemIDs[a.ID] = struct{}{}
	s.UsedItemIDs[b.ID] = struct{}{}
	s.UsedMatchups[matchupKey(a.ID, b.ID)] = struct{}{}
}

// setPair 현재 매치업 교체
func (s *GameSession) setPair(a, b *models.Item) {
	s.CurrentPair = [2]*models.Item{a, b}
}

// HasPair 투표 가능한 매치업이 있는지
func (s *GameSession) HasPair() bool {
	return s.CurrentPair[0] != nil && s.CurrentPair[1] != nil
}

// mergeScores 레이팅 갱신 결과를 풀에 반영
// 다음 매치업 선택 전에 반드시 호출되어 셀렉터가 옛 점수를 보지 않게 한다
func (s *GameSession) mergeScores(updated ...models.Item) {
	for i := range s.Pool {
		for _, u := range updated {
			if s.Pool[i].ID == u.ID {
				s.Pool[i].IndexScore = u.IndexScore
			}
		}
	}
}

// itemByID 풀에서 아이템 복사본 찾기
func (s *GameSession) itemByID(id string) (models.Item, bool) {
	for _, it := range s.Pool {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

// topIDs 점수 내림차순 상위 n개 아이템 ID
func (s *GameSession) topIDs(n int) map[string]struct{} {
	sorted := sortedByScoreDesc(s.Pool)
	if n > len(sorted) {
		n = len(sorted)
	}
	ids := make(map[string]struct{}, n)
	for _, it := range sorted[:n] {
		ids[it.ID] = struct{}{}
	}
	return ids
}

// sortedByScoreAsc 점수 오름차순 복사본
func sortedByScoreAsc(pool []models.Item) []models.Item {
	sorted := make([]models.Item, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IndexScore < sorted[j].IndexScore
	})
	return sorted
}

// sortedByScoreDesc 점수 내림차순 복사본
func sortedByScoreDesc(pool []models.Item) []models.Item {
	sorted := make([]models.Item, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IndexScore > sorted[j].IndexScore
	})
	return sorted
}

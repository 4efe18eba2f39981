package service

import (
	"math"
	"math/rand"
	"time"

	"github.com/lb1717/vootes/internal/models"
)

// ladderThreshold 래더 모드 도전자 최소 점수 비율 (승자 점수 대비)
const ladderThreshold = 0.95

// MatchupSelector 투표 결과 이후 다음 매치업을 고르는 전략
// 모드별 구현이 세션의 매치업/사용 기록을 직접 갱신한다
type MatchupSelector interface {
	// SeedPair 세션 시작(또는 모드 전환) 시 첫 매치업 구성
	SeedPair(s *GameSession)
	// NextPair 투표 결과를 반영한 뒤 다음 매치업 구성
	// 호출 시점에 세션 풀은 이미 갱신된 점수를 들고 있어야 한다
	NextPair(s *GameSession, winner models.Item, winnerIdx int)
}

// NewSelector 모드에 맞는 셀렉터 생성
// rng가 nil이면 시간 기반 시드 사용, 테스트에서는 고정 시드 주입
func NewSelector(mode Mode, rng *rand.Rand) MatchupSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if mode == ModeRandom {
		return &randomSelector{rng: rng}
	}
	return &ladderSelector{rng: rng}
}

// ladderSelector 승자가 남고 상대 난이도가 점점 올라가는 모드
type ladderSelector struct {
	rng *rand.Rand
}

func (l *ladderSelector) SeedPair(s *GameSession) {
	a, b := initialPair(l.rng, s.Pool)
	s.resetUsed()
	s.setPair(a, b)
	s.markUsed(a, b)
}

func (l *ladderSelector) NextPair(s *GameSession, winner models.Item, winnerIdx int) {
	// 1차: 승자 점수의 95% 이상인 미등장 아이템
	threshold := ladderThreshold * float64(winner.IndexScore)
	var candidates []models.Item
	for _, it := range s.Pool {
		if it.ID == winner.ID {
			continue
		}
		if _, used := s.UsedItemIDs[it.ID]; used {
			continue
		}
		if float64(it.IndexScore) >= threshold {
			candidates = append(candidates, it)
		}
	}

	// 2차: 임계값을 버리고 아직 안 나온 아무 아이템
	if len(candidates) == 0 {
		for _, it := range s.Pool {
			if it.ID == winner.ID {
				continue
			}
			if _, used := s.UsedItemIDs[it.ID]; used {
				continue
			}
			candidates = append(candidates, it)
		}
	}

	// 풀 소진: 사용 기록을 비우고 하위 구간에서 새로 시작
	if len(candidates) == 0 {
		l.SeedPair(s)
		return
	}

	challenger := candidates[l.rng.Intn(len(candidates))]

	// 승자는 자기 자리(좌/우)를 유지하고 도전자가 빈 자리를 채운다
	winnerCopy := winner
	challengerCopy := challenger
	pair := s.CurrentPair
	pair[winnerIdx] = &winnerCopy
	pair[1-winnerIdx] = &challengerCopy
	s.CurrentPair = pair

	s.UsedItemIDs[challenger.ID] = struct{}{}
	s.UsedMatchups[matchupKey(winner.ID, challenger.ID)] = struct{}{}
}

// randomSelector 점수를 무시하고 균등 추출하는 모드
// 다음 매치업을 미리 뽑아두고 투표 시점에 승격시킨다
type randomSelector struct {
	rng *rand.Rand
}

func (r *randomSelector) SeedPair(s *GameSession) {
	a, b := initialPair(r.rng, s.Pool)
	s.resetUsed()
	s.setPair(a, b)
	s.markUsed(a, b)
	s.NextPair[0], s.NextPair[1] = r.draw(s.Pool)
}

func (r *randomSelector) NextPair(s *GameSession, winner models.Item, winnerIdx int) {
	next := s.NextPair
	if next[0] == nil || next[1] == nil {
		next[0], next[1] = r.draw(s.Pool)
	}
	// 미리 뽑아둔 점수가 이번 투표로 바뀌었을 수 있으니 풀에서 다시 읽는다
	for i, it := range next {
		if it == nil {
			continue
		}
		if fresh, ok := s.itemByID(it.ID); ok {
			freshCopy := fresh
			next[i] = &freshCopy
		}
	}
	s.CurrentPair = next
	s.NextPair[0], s.NextPair[1] = r.draw(s.Pool)
}

// draw 풀에서 서로 다른 아이템 2개 균등 추출 (2개 미만이면 nil, nil)
func (r *randomSelector) draw(pool []models.Item) (*models.Item, *models.Item) {
	if len(pool) < 2 {
		return nil, nil
	}
	i := r.rng.Intn(len(pool))
	j := r.rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	a, b := pool[i], pool[j]
	return &a, &b
}

// initialPair 점수 하위 25% 구간(최소 2개)에서 서로 다른 2개 추출
// 최상위 아이템과 신규 아이템이 바로 붙는 상황을 피하기 위한 정책
func initialPair(rng *rand.Rand, pool []models.Item) (*models.Item, *models.Item) {
	if len(pool) < 2 {
		return nil, nil
	}

	sorted := sortedByScoreAsc(pool)
	quarter := int(math.Ceil(float64(len(sorted)) * 0.25))
	if quarter < 2 {
		quarter = 2
	}
	lowerRange := sorted[:quarter]

	i := rng.Intn(len(lowerRange))
	j := rng.Intn(len(lowerRange) - 1)
	if j >= i {
		j++
	}
	a, b := lowerRange[i], lowerRange[j]
	return &a, &b
}

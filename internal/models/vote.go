package models

// VoteRequest 현재 매치업에 대한 투표
// WinnerIndex는 좌/우 슬롯(0 또는 1)
type VoteRequest struct {
	WinnerIndex *int `json:"winnerIndex" binding:"required"`
}

type LockInRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

type SwitchModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type StartSessionRequest struct {
	CategoryID string `json:"categoryId" binding:"required"`
	Mode       string `json:"mode"`
}

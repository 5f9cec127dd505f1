package store

import "time"

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// BetFilter narrows ledger queries. Zero values mean "no constraint".
type BetFilter struct {
	Status  string
	Result  string
	Capper  string
	Sport   string
	League  string
	SlipRef string
	From    *time.Time
	To      *time.Time
}

package models

// Strategy selects which scoring algorithm the analyzer applies.
type Strategy string

const (
	StrategySmartBalance   Strategy = "smart_balance"
	StrategyFastestWins    Strategy = "fastest_wins"
	StrategyHighImpact     Strategy = "high_impact"
	StrategyDeadlineDriven Strategy = "deadline_driven"
)

var ValidStrategies = map[Strategy]bool{
	StrategySmartBalance:   true,
	StrategyFastestWins:    true,
	StrategyHighImpact:     true,
	StrategyDeadlineDriven: true,
}

func (s Strategy) IsValid() bool {
	return ValidStrategies[s]
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ExpiresAt int64  `json:"expires_at"`
}

// HealthResponse reports service and dependency status.
type HealthResponse struct {
	Status    string       `json:"status"`
	DB        ServiceCheck `json:"db"`
	TaskCount int          `json:"task_count"`
}

// ServiceCheck is the status of one dependency.
type ServiceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

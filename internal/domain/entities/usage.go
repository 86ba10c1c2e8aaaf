package entities

// KeyUsage es el consumo de créditos reportado para una API key
type KeyUsage struct {
	CreditLimitDaily   int64 `json:"credit_limit_daily"`
	CreditLimitMonthly int64 `json:"credit_limit_monthly"`
	RateLimitMinute    int64 `json:"rate_limit_minute"`

	MinuteRequestsMade int64 `json:"minute_requests_made"`
	MinuteRequestsLeft int64 `json:"minute_requests_left"`
	DayCreditsUsed     int64 `json:"day_credits_used"`
	DayCreditsLeft     int64 `json:"day_credits_left"`
	MonthCreditsUsed   int64 `json:"month_credits_used"`
	MonthCreditsLeft   int64 `json:"month_credits_left"`
}

// HasHeadroom reports whether usage is below both thresholds (fractions of the plan limits).
// A zero limit means the plan has no cap for that window.
func (u *KeyUsage) HasHeadroom(dayThreshold, monthThreshold float64) bool {
	if u == nil {
		return false
	}
	if u.CreditLimitDaily > 0 && float64(u.DayCreditsUsed) >= float64(u.CreditLimitDaily)*dayThreshold {
		return false
	}
	if u.CreditLimitMonthly > 0 && float64(u.MonthCreditsUsed) >= float64(u.CreditLimitMonthly)*monthThreshold {
		return false
	}
	return true
}

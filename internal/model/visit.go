package model

import (
	"time"

	"github.com/google/uuid"
)

// Visit is one accepted entry, tagged with the activity the admin chose
// at the door and the points it awarded.
type Visit struct {
	ID            uuid.UUID `json:"id"`
	MemberID      uuid.UUID `json:"member_id"`
	ActivityName  string    `json:"activity_name"`
	PointsAwarded int       `json:"points_awarded"`
	CheckIn       time.Time `json:"check_in"`
	CreatedAt     time.Time `json:"-"`
}

// Activity is an admin-selectable label for a visit. Points is the
// award granted when a visit is accepted under this activity.
type Activity struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Points      int       `json:"points"`
	Description string    `json:"description"`
}

// DailyStats are the operational counters for one day, derived from the
// visits and redemptions written by the accept flow.
type DailyStats struct {
	VisitsCount        int `json:"visits_count"`
	RewardsUsed        int `json:"rewards_used"`
	PointsAwarded      int `json:"points_awarded"`
	CapacityPercentage int `json:"capacity_percentage"`
}

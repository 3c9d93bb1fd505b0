package model

import "time"

// ActionType identifies a point-earning activity
type ActionType string

const (
	ActionPublication        ActionType = "publication"
	ActionComment            ActionType = "comment"
	ActionReactionReceived   ActionType = "reaction_received"
	ActionEventParticipation ActionType = "event_participation"
	ActionEventHosted        ActionType = "event_hosted"
	ActionFirstPublication   ActionType = "first_publication"
	ActionHelpfulComment     ActionType = "helpful_comment"
	ActionReferral           ActionType = "referral"
	ActionVolunteering       ActionType = "volunteering"
	ActionMentorship         ActionType = "mentorship"
	ActionProjectLead        ActionType = "project_lead"
)

// PointsRule defines how many points a single action earns
type PointsRule struct {
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// PointsTable maps actions to their point values. Supplied by operators at
// wiring time so point values can be retuned without a code change.
type PointsTable map[ActionType]PointsRule

// DefaultPointsTable returns the club's standard point values
func DefaultPointsTable() PointsTable {
	return PointsTable{
		ActionPublication:        {Points: 10, Description: "Create a new publication"},
		ActionComment:            {Points: 2, Description: "Comment on a publication"},
		ActionReactionReceived:   {Points: 1, Description: "Receive a reaction on your content"},
		ActionEventParticipation: {Points: 100, Description: "Attend a confirmed event"},
		ActionEventHosted:        {Points: 500, Description: "Create and host an event"},
		ActionFirstPublication:   {Points: 50, Description: "Bonus for your first publication"},
		ActionHelpfulComment:     {Points: 5, Description: "Comment marked helpful by a moderator"},
		ActionReferral:           {Points: 300, Description: "Invite a new member who registers"},
		ActionVolunteering:       {Points: 200, Description: "Take part in a volunteering activity"},
		ActionMentorship:         {Points: 150, Description: "Mentor new members"},
		ActionProjectLead:        {Points: 1000, Description: "Lead a community project"},
	}
}

// Level is a named tier unlocked once total points cross MinPoints
type Level struct {
	Name        string   `json:"name"`
	MinPoints   int      `json:"min_points"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon,omitempty"`
	Description string   `json:"description,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// Levels is an ordered ladder of levels, ascending by MinPoints
type Levels []Level

// DefaultLevels returns the club's level ladder, aligned with membership tiers
func DefaultLevels() Levels {
	return Levels{
		{Name: "Aspirante", MinPoints: 0, Color: "text-gray-500", Icon: "🌱", Description: "New to the community", Benefits: []string{"Basic access", "Limited participation"}},
		{Name: "Explorador", MinPoints: 250, Color: "text-blue-500", Icon: "🧭", Description: "Starting to take part", Benefits: []string{"Create publications", "Comment freely"}},
		{Name: "Participante", MinPoints: 500, Color: "text-indigo-600", Icon: "🙌", Description: "Active participant", Benefits: []string{"Create groups", "Moderate own content"}},
		{Name: "Friend", MinPoints: 1000, Color: "text-purple-600", Icon: "🤝", Description: "Friend member of the club", Benefits: []string{"Free events", "Basic membership benefits"}},
		{Name: "Rider", MinPoints: 1500, Color: "text-green-600", Icon: "🏍️", Description: "Active and committed rider", Benefits: []string{"Event discounts", "Workshop access"}},
		{Name: "Pro", MinPoints: 3000, Color: "text-yellow-600", Icon: "⚡", Description: "Experienced motorcyclist", Benefits: []string{"Free equipment", "Exclusive events"}},
		{Name: "Legend", MinPoints: 9000, Color: "text-red-600", Icon: "🔥", Description: "Community legend", Benefits: []string{"VIP events", "Special recognition"}},
		{Name: "Master", MinPoints: 18000, Color: "text-purple-700", Icon: "🎓", Description: "Master of motorcycling", Benefits: []string{"All benefits", "Elite status"}},
		{Name: "Volunteer", MinPoints: 25000, Color: "text-green-700", Icon: "💚", Description: "Committed volunteer", Benefits: []string{"Bonus points", "Administrative access"}},
		{Name: "Leader", MinPoints: 40000, Color: "text-gray-900", Icon: "👑", Description: "Community leader", Benefits: []string{"Project leadership", "Top privileges"}},
	}
}

// Badge is a decoration awarded for a qualitative accomplishment
type Badge struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Requirement string `json:"requirement,omitempty"`
}

// DefaultBadges returns the club's badge catalog
func DefaultBadges() []Badge {
	return []Badge{
		{Name: "Colaborador", Icon: "🤝", Color: "bg-blue-100 text-blue-800", Description: "Has actively helped other members", Requirement: "At least 50 helpful comments"},
		{Name: "Motociclista Activo", Icon: "🏍️", Color: "bg-green-100 text-green-800", Description: "Takes part in events regularly", Requirement: "Attend at least 5 events"},
		{Name: "Socializado", Icon: "💬", Color: "bg-yellow-100 text-yellow-800", Description: "Very active in comments and conversations", Requirement: "More than 100 comments"},
		{Name: "Influyente", Icon: "⭐", Color: "bg-orange-100 text-orange-800", Description: "Their publications draw many reactions", Requirement: "More than 500 reactions received"},
		{Name: "Pionero", Icon: "🎯", Color: "bg-indigo-100 text-indigo-800", Description: "One of the community's earliest members", Requirement: "Founding member or among the first 100"},
		{Name: "Mentor", Icon: "🧑‍🏫", Color: "bg-teal-100 text-teal-800", Description: "Helps and guides new members", Requirement: "Helpful answers confirmed by moderators"},
		{Name: "Aventurero", Icon: "🗺️", Color: "bg-red-100 text-red-800", Description: "Joins routes and adventures", Requirement: "Take part in route or adventure events"},
	}
}

// Reward is a redeemable catalog item shown as an upcoming goal
type Reward struct {
	Name       string `json:"name"`
	CostPoints int    `json:"cost_points"`
	Category   string `json:"category"`
}

// DefaultRewards returns the club's reward catalog
func DefaultRewards() []Reward {
	return []Reward{
		{Name: "Club sticker pack", CostPoints: 500, Category: "merchandising"},
		{Name: "Event discount voucher", CostPoints: 1500, Category: "discounts"},
		{Name: "Club t-shirt", CostPoints: 3000, Category: "merchandising"},
		{Name: "Free workshop seat", CostPoints: 6000, Category: "events"},
		{Name: "Annual ride jacket patch", CostPoints: 12000, Category: "merchandising"},
	}
}

// GamificationConfig bundles the operator-supplied tables the engine runs on.
// Passed in explicitly at wiring time; there is no package-level default in use.
type GamificationConfig struct {
	Points  PointsTable
	Levels  Levels
	Badges  []Badge
	Rewards []Reward
}

// DefaultGamificationConfig returns a config with all standard tables
func DefaultGamificationConfig() GamificationConfig {
	return GamificationConfig{
		Points:  DefaultPointsTable(),
		Levels:  DefaultLevels(),
		Badges:  DefaultBadges(),
		Rewards: DefaultRewards(),
	}
}

// ActivityCounters is the per-user raw activity snapshot the engine reads.
// The counters are produced by the event-logging collaborator; this API
// treats them as read-only input (ranks excepted, which the refresh job
// writes back).
type ActivityCounters struct {
	UserID                string    `json:"user_id"`
	Publications          int       `json:"publications"`
	Comments              int       `json:"comments"`
	ReactionsReceived     int       `json:"reactions_received"`
	EventsAttended        int       `json:"events_attended"`
	EventsRegistered      int       `json:"events_registered"`
	EventsHosted          int       `json:"events_hosted"`
	MonthlyEventsAttended int       `json:"monthly_events_attended"`
	CurrentStreak         int       `json:"current_streak"`
	BestStreak            int       `json:"best_streak"`
	ActiveDays            int       `json:"active_days"`
	CurrentRank           int       `json:"current_rank"`
	BestRank              int       `json:"best_rank"`
	LastLogin             time.Time `json:"last_login"`
	CreatedOn             time.Time `json:"created_on"`
}

// ParticipationScore returns attendance as a percentage of registrations
func (c ActivityCounters) ParticipationScore() int {
	if c.EventsRegistered == 0 {
		return 0
	}
	score := c.EventsAttended * 100 / c.EventsRegistered
	if score > 100 {
		score = 100
	}
	return score
}

// PointsBreakdown is the per-category point decomposition of a user's activity.
// Total is always the sum of the category values.
type PointsBreakdown struct {
	Categories map[ActionType]int `json:"categories"`
	Total      int                `json:"total"`
}

// LevelStanding pairs the resolved level with progress toward the next one
type LevelStanding struct {
	Current  Level  `json:"current"`
	Next     *Level `json:"next,omitempty"`
	Progress int    `json:"progress"` // 0-100, 100 at the top level
}

// RankedUser is one row of the computed leaderboard
type RankedUser struct {
	UserID       string  `json:"user_id"`
	Points       int     `json:"points"`
	Position     int     `json:"position"` // 1-based, unique per user
	Percentile   float64 `json:"percentile"`
	PointsToNext int     `json:"points_to_next"`
}

// RankingView is the single-user slice of the leaderboard
type RankingView struct {
	Position     int     `json:"position"`
	TotalUsers   int     `json:"total_users"`
	Percentile   float64 `json:"percentile"`
	PointsToNext int     `json:"points_to_next"`
	Change       int     `json:"change"`
}

// TransactionType classifies a point transaction
type TransactionType string

const (
	TransactionEarn    TransactionType = "earn"
	TransactionRedeem  TransactionType = "redeem"
	TransactionBonus   TransactionType = "bonus"
	TransactionPenalty TransactionType = "penalty"
)

// PointTransaction is an immutable ledger entry recording a point award or
// reversal. Persistence belongs to the ledger repository; the engine only
// computes amount and metadata.
type PointTransaction struct {
	ID        string            `json:"id,omitempty"`
	UserID    string            `json:"user_id"`
	Type      TransactionType   `json:"type"`
	Amount    int               `json:"amount"`
	Reason    string            `json:"reason"`
	SourceKey string            `json:"source_key,omitempty"` // event:xyz, month:2026-01
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedOn time.Time         `json:"created_on"`
}

// Achievement is a milestone evaluated against activity counters
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points_awarded"`
	Type        string `json:"type"` // event, participation, social, special

	// Condition reports whether the counters satisfy the achievement.
	// Not serialized.
	Condition func(ActivityCounters) bool `json:"-"`
}

// Achievements returns the club's achievement catalog
func Achievements() []Achievement {
	return []Achievement{
		{
			ID: "first_event", Name: "First Event", Icon: "🎉", Points: 50, Type: "event",
			Description: "Attended your first event",
			Condition:   func(c ActivityCounters) bool { return c.EventsAttended >= 1 },
		},
		{
			ID: "event_veteran", Name: "Event Veteran", Icon: "🏆", Points: 200, Type: "event",
			Description: "Attended 10 events",
			Condition:   func(c ActivityCounters) bool { return c.EventsAttended >= 10 },
		},
		{
			ID: "event_legend", Name: "Event Legend", Icon: "👑", Points: 500, Type: "event",
			Description: "Attended 25 events",
			Condition:   func(c ActivityCounters) bool { return c.EventsAttended >= 25 },
		},
		{
			ID: "perfect_attendance", Name: "Perfect Attendance", Icon: "⭐", Points: 300, Type: "participation",
			Description: "Attended every event you registered for",
			Condition: func(c ActivityCounters) bool {
				return c.EventsRegistered >= 5 && c.EventsAttended == c.EventsRegistered
			},
		},
		{
			ID: "monthly_active", Name: "Active This Month", Icon: "📅", Points: 150, Type: "participation",
			Description: "Attended 3 events in one month",
			Condition:   func(c ActivityCounters) bool { return c.MonthlyEventsAttended >= 3 },
		},
		{
			ID: "consistent_member", Name: "Consistent Member", Icon: "🎯", Points: 250, Type: "participation",
			Description: "Kept attendance at 80% or above",
			Condition: func(c ActivityCounters) bool {
				return c.EventsRegistered >= 5 && c.ParticipationScore() >= 80
			},
		},
	}
}

// SnapshotStats is the flat statistics block of a gamification snapshot
type SnapshotStats struct {
	ParticipationScore int           `json:"participation_score"`
	TotalPoints        int           `json:"total_points"`
	UserRank           int           `json:"user_rank"`
	TotalUsers         int           `json:"total_users"`
	Level              string        `json:"level"`
	NextLevelPoints    int           `json:"next_level_points"`
	LevelProgress      int           `json:"level_progress"`
	CurrentStreak      int           `json:"current_streak"`
	BestStreak         int           `json:"best_streak"`
	PointsToday        int           `json:"points_today"`
	PointsThisMonth    int           `json:"points_this_month"`
	PointsThisYear     int           `json:"points_this_year"`
	Achievements       []Achievement `json:"achievements"`
}

// StatsSnapshot is the read-only view the dashboard consumes.
// Recomputed on demand; never cached or persisted.
type StatsSnapshot struct {
	Stats       SnapshotStats   `json:"stats"`
	Breakdown   PointsBreakdown `json:"breakdown"`
	Level       LevelStanding   `json:"level"`
	Ranking     RankingView     `json:"ranking"`
	NextRewards []Reward        `json:"next_rewards"`
}

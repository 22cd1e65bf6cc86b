// Package domain defines the persistence models for tickets and agents.
// These types are mapped with GORM and form the core data layer of the
// ticket desk.
package domain

import "time"

// Ticket is a support request with lifecycle fields and a single assignment
// slot.
//
// Fields:
//   - ID: store-assigned integer primary key.
//   - Email: reporter contact; free text, no format constraint.
//   - Description: free-text issue summary.
//   - ToAssign: display name of the assigned agent, copied by value at
//     assignment time (not a foreign key).
//   - Status / TicketPriority / TicketGroup / Remark: free-text labels.
//   - CreatedDate: set once at creation.
//   - ClosingTime: set once at creation to CreatedDate plus the closing
//     window; never recomputed.
//   - UpdatedAt: bumped by GORM on every write; not serialized.
type Ticket struct {
	ID             int64     `json:"id"              gorm:"primaryKey;autoIncrement"`
	Email          string    `json:"email"           gorm:"type:varchar(320)"`
	Description    string    `json:"description"     gorm:"type:text"`
	ToAssign       string    `json:"toassign"        gorm:"column:toassign;type:varchar(255)"`
	Status         string    `json:"status"          gorm:"type:varchar(64);index"`
	TicketPriority string    `json:"ticket_priority" gorm:"type:varchar(64)"`
	TicketGroup    string    `json:"ticket_group"    gorm:"type:varchar(128);index"`
	Remark         string    `json:"remark"          gorm:"type:text"`
	CreatedDate    time.Time `json:"created_date"    gorm:"not null"`
	ClosingTime    time.Time `json:"closing_time"    gorm:"not null"`
	UpdatedAt      time.Time `json:"-"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// Agent is a support-staff record scoped to a group. AgentName is unique
// at the store level; AgentGroup is nil when the agent was registered
// without one, and a nil group never matches a ticket group.
type Agent struct {
	AgentID    int64   `json:"agent_id"    gorm:"column:agent_id;primaryKey;autoIncrement"`
	AgentName  string  `json:"agent_name"  gorm:"type:varchar(255);not null;uniqueIndex:ux_agents_name"`
	AgentGroup *string `json:"agent_group" gorm:"type:varchar(128);index"`
}

// TableName returns the database table name for Agent.
func (Agent) TableName() string { return "agents" }

// InGroup reports whether the agent belongs to group. Agents without a group
// belong to none.
func (a Agent) InGroup(group string) bool {
	return a.AgentGroup != nil && *a.AgentGroup == group
}

package checkclock

import (
	"fmt"
	"time"
)

type ClockType string

const (
	TypeCheckIn     ClockType = "check-in"
	TypeCheckOut    ClockType = "check-out"
	TypeAnnualLeave ClockType = "annual-leave"
	TypeSickLeave   ClockType = "sick-leave"
	TypeAbsent      ClockType = "absent"
)

var ClockTypeValues = []string{
	string(TypeCheckIn),
	string(TypeCheckOut),
	string(TypeAnnualLeave),
	string(TypeSickLeave),
	string(TypeAbsent),
}

// IsLeave reports whether the type goes through the approval queue on submission.
func (t ClockType) IsLeave() bool {
	return t == TypeAnnualLeave || t == TypeSickLeave || t == TypeAbsent
}

// Status is the closed attendance status vocabulary.
type Status string

const (
	StatusOnTime          Status = "On Time"
	StatusLate            Status = "Late"
	StatusAbsent          Status = "Absent"
	StatusAnnualLeave     Status = "Annual Leave"
	StatusSickLeave       Status = "Sick Leave"
	StatusWaitingApproval Status = "Waiting Approval"
	StatusNone            Status = "-"
)

var StatusValues = []string{
	string(StatusOnTime),
	string(StatusLate),
	string(StatusAbsent),
	string(StatusAnnualLeave),
	string(StatusSickLeave),
	string(StatusWaitingApproval),
	string(StatusNone),
}

// DecidedLeaveStatus is the status a leave-type event carries once approved.
func DecidedLeaveStatus(t ClockType) Status {
	switch t {
	case TypeAnnualLeave:
		return StatusAnnualLeave
	case TypeSickLeave:
		return StatusSickLeave
	default:
		return StatusAbsent
	}
}

// CheckClock is one row of the attendance ledger.
type CheckClock struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	SettingID    *string
	BranchID     *string
	Type         ClockType
	Date         time.Time
	ClockTime    *string // HH:MM:SS, check-in time
	CheckOutTime *string // HH:MM:SS, only on check-out rows
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *Status
	Approved     *bool
	Location     *string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	Photo        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	// Joined
	EmployeeName string
	PositionName *string
}

// StatusOrNone dereferences Status.
func (c CheckClock) StatusOrNone() Status {
	if c.Status == nil {
		return StatusNone
	}
	return *c.Status
}

// WorkDuration is elapsed work time in whole hours and minutes.
type WorkDuration struct {
	Hours   int
	Minutes int
}

func (d WorkDuration) String() string {
	return fmt.Sprintf("%dh %dm", d.Hours, d.Minutes)
}

func (d WorkDuration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ApprovalLabel string

const (
	ApprovalApproved ApprovalLabel = "Approved"
	ApprovalRejected ApprovalLabel = "Rejected"
	ApprovalPending  ApprovalLabel = "Pending"
)

func ApprovalLabelOf(approved *bool) ApprovalLabel {
	switch {
	case approved == nil:
		return ApprovalPending
	case *approved:
		return ApprovalApproved
	default:
		return ApprovalRejected
	}
}

// AttendanceRow is the report-ready view of one employee on one day. Synthesized
// absentee rows have a nil ID.
type AttendanceRow struct {
	ID            *string       `json:"id"`
	EmployeeID    string        `json:"employee_id"`
	EmployeeName  string        `json:"employee_name"`
	Position      *string       `json:"position"`
	Type          *ClockType    `json:"check_clock_type"`
	Date          string        `json:"date"`
	ClockIn       *string       `json:"clock_in"`
	ClockOut      *string       `json:"clock_out"`
	WorkDuration  *WorkDuration `json:"work_hours"`
	Approved      *bool         `json:"approved"`
	ApprovalLabel ApprovalLabel `json:"approval_label"`
	Status        Status        `json:"status"`
	StartDate     *string       `json:"start_date,omitempty"`
	EndDate       *string       `json:"end_date,omitempty"`
	Location      *string       `json:"location"`
	Address       *string       `json:"address"`
	Latitude      *float64      `json:"latitude"`
	Longitude     *float64      `json:"longitude"`
	Photo         *string       `json:"photo"`
}

// DecisionEvent is published after an event is approved or rejected.
type DecisionEvent struct {
	EventID    string    `json:"eventId"`
	CompanyID  string    `json:"companyId"`
	EmployeeID string    `json:"employeeId"`
	Type       ClockType `json:"type"`
	Date       string    `json:"date"`
	Approved   bool      `json:"approved"`
	Status     Status    `json:"status"`
	DecidedAt  time.Time `json:"decidedAt"`
}

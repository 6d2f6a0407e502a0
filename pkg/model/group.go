package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Group is a set of members sharing expenses.
type Group struct {
	ID          string    `json:"groupId"`
	Name        string    `json:"groupName"`
	Description string    `json:"description,omitempty"`
	Members     []Member  `json:"groupMembers,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts the short id/name keys the group list uses as well
// as the groupId/groupName keys of the detail view.
func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	var raw struct {
		plain
		ShortID   string `json:"id"`
		ShortName string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Group(raw.plain)
	if g.ID == "" {
		g.ID = raw.ShortID
	}
	if g.Name == "" {
		g.Name = raw.ShortName
	}
	return nil
}

// Member is a participant of a group.
type Member struct {
	ID    string `json:"groupMemberId"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone *Phone `json:"phone,omitempty"`
}

// Phone is a number split into its dialling prefix and subscriber part.
type Phone struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber int64  `json:"phoneNumber"`
}

// GroupInput is the body for creating or updating a group.
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MemberInvite adds one member, identified by email or by phone.
type MemberInvite struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone *Phone `json:"phone,omitempty"`
}

// Expense is a shared cost paid by one member and owed by debtors.
type Expense struct {
	ID          string          `json:"expenseId"`
	GroupID     string          `json:"groupId,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payerId,omitempty"`
	PayerName   string          `json:"payerName,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

// ExpenseInput is the body for creating or updating an expense.
type ExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payerId,omitempty"`
}

// MarshalJSON writes the amount as a JSON number; the backend rejects quoted amounts.
func (in ExpenseInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string      `json:"description"`
		Amount      json.Number `json:"amount"`
		PayerID     string      `json:"payerId,omitempty"`
	}{in.Description, json.Number(in.Amount.String()), in.PayerID})
}

// DebtorsInput lists the group members who owe a share of an expense.
type DebtorsInput struct {
	MemberIDs []string `json:"membersId"`
}

// Settlement is a computed balance transfer from a debtor to a creditor.
type Settlement struct {
	ID           string          `json:"settlementId,omitempty"`
	CreditorID   string          `json:"creditorId"`
	CreditorName string          `json:"creditorName,omitempty"`
	DebtorID     string          `json:"debtorId"`
	DebtorName   string          `json:"debtorName,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status,omitempty"`
}

// BalanceTransactions is the settlement listing of a group.
type BalanceTransactions struct {
	Transactions []Settlement `json:"transactions"`
}

// SettlementStatusPaid marks a settlement as paid.
const SettlementStatusPaid = "paid"

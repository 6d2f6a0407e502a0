package splitora

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/splitora/client/internal/httpclient"
	"github.com/splitora/client/pkg/model"
)

// ListExpenses returns the expenses recorded in a group.
func (c *Client) ListExpenses(ctx context.Context, groupID string) ([]model.Expense, error) {
	var out []model.Expense
	if err := c.http.Do(ctx, httpclient.Get("/expense/group/"+url.PathEscape(groupID)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, groupID string, in model.ExpenseInput) (*model.Expense, error) {
	var e model.Expense
	if err := c.http.Do(ctx, httpclient.Post("/expense/create/"+url.PathEscape(groupID), in), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateExpense(ctx context.Context, groupID, expenseID string, in model.ExpenseInput) (*model.Expense, error) {
	path := "/group/" + url.PathEscape(groupID) + "/expenses/" + url.PathEscape(expenseID)
	var e model.Expense
	if err := c.http.Do(ctx, httpclient.Put(path, in), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteExpense(ctx context.Context, expenseID string) error {
	_, err := c.http.Send(ctx, httpclient.Delete("/expense/delete/"+url.PathEscape(expenseID)))
	return err
}

// AddDebtors adds group members who owe a share of the expense. memberIDs
// are group member IDs, not user IDs.
func (c *Client) AddDebtors(ctx context.Context, expenseID string, memberIDs []string) (json.RawMessage, error) {
	body := model.DebtorsInput{MemberIDs: memberIDs}
	return c.http.Send(ctx, httpclient.Post("/expense/add-ower/"+url.PathEscape(expenseID), body))
}

package splitora

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/splitora/client/internal/httpclient"
	"github.com/splitora/client/pkg/model"
)

// ListSettlements returns the balance transfers computed for a group.
func (c *Client) ListSettlements(ctx context.Context, groupID string) ([]model.Settlement, error) {
	var out model.BalanceTransactions
	if err := c.http.Do(ctx, httpclient.Get("/group/getBalanceTransactions/"+url.PathEscape(groupID)), &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// MarkPaid records a settlement as paid.
func (c *Client) MarkPaid(ctx context.Context, groupID, settlementID string) error {
	path := "/group/" + url.PathEscape(groupID) + "/settlements/" + url.PathEscape(settlementID)
	_, err := c.http.Send(ctx, httpclient.Patch(path, map[string]string{"status": model.SettlementStatusPaid}))
	return err
}

// Outstanding sums the unpaid settlements.
func Outstanding(settlements []model.Settlement) decimal.Decimal {
	total := decimal.Zero
	for _, s := range settlements {
		if s.Status != model.SettlementStatusPaid {
			total = total.Add(s.Amount)
		}
	}
	return total
}

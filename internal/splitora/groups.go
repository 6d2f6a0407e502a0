package splitora

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/splitora/client/internal/httpclient"
	"github.com/splitora/client/pkg/model"
)

// ErrInvalidInvite is returned when an invite lacks a name or does not carry
// exactly one of email and phone.
var ErrInvalidInvite = errors.New("invite needs a name and exactly one of email or phone")

// ListGroups returns the groups the user belongs to.
func (c *Client) ListGroups(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := c.http.Do(ctx, httpclient.Get("/group"), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup returns one group with its members.
func (c *Client) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	if err := c.http.Do(ctx, httpclient.Get("/group/"+url.PathEscape(id)), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) CreateGroup(ctx context.Context, in model.GroupInput) (*model.Group, error) {
	var g model.Group
	if err := c.http.Do(ctx, httpclient.Post("/group/create", in), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id string, in model.GroupInput) (*model.Group, error) {
	var g model.Group
	if err := c.http.Do(ctx, httpclient.Put("/group/"+url.PathEscape(id), in), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	_, err := c.http.Send(ctx, httpclient.Delete("/group/delete").WithQuery("groupId", id))
	return err
}

// AddMembers invites one member by email or by phone. The backend answers
// with a shape that varies by invite outcome, so it is returned undecoded.
func (c *Client) AddMembers(ctx context.Context, groupID string, invite model.MemberInvite) (json.RawMessage, error) {
	if invite.Name == "" || (invite.Email == "") == (invite.Phone == nil) {
		return nil, ErrInvalidInvite
	}
	return c.http.Send(ctx, httpclient.Post("/group/add-member/"+url.PathEscape(groupID), invite))
}

func (c *Client) RemoveMember(ctx context.Context, groupID, memberID string) error {
	_, err := c.http.Send(ctx, httpclient.Delete("/group/"+url.PathEscape(groupID)+"/members/"+url.PathEscape(memberID)))
	return err
}

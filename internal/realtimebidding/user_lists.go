package realtimebidding

import (
	"context"

	rtbv1 "google.golang.org/api/realtimebidding/v1"
)

// CreateUserList creates a user list under a buyer
func (c *Client) CreateUserList(ctx context.Context, parent string, list *UserList) (*UserList, error) {
	return c.svc.Buyers.UserLists.Create(parent, list).Context(ctx).Do()
}

// GetUserList gets a user list by resource name
func (c *Client) GetUserList(ctx context.Context, name string) (*UserList, error) {
	return c.svc.Buyers.UserLists.Get(name).Context(ctx).Do()
}

// UserListPages pages through a buyer's user lists
func (c *Client) UserListPages(parent string) Lister[UserList] {
	return func(ctx context.Context, visit func([]*UserList) error) error {
		return c.svc.Buyers.UserLists.List(parent).PageSize(c.pageSize).Pages(ctx, func(r *rtbv1.ListUserListsResponse) error {
			return visit(r.UserLists)
		})
	}
}

// UpdateUserList replaces a user list. The API has no patch for user lists,
// so callers read, modify and write back the whole resource.
func (c *Client) UpdateUserList(ctx context.Context, name string, list *UserList) (*UserList, error) {
	return c.svc.Buyers.UserLists.Update(name, list).Context(ctx).Do()
}

// CloseUserList stops a user list from accruing members
func (c *Client) CloseUserList(ctx context.Context, name string) (*UserList, error) {
	return c.svc.Buyers.UserLists.Close(name, &rtbv1.CloseUserListRequest{}).Context(ctx).Do()
}

// OpenUserList reopens a closed user list
func (c *Client) OpenUserList(ctx context.Context, name string) (*UserList, error) {
	return c.svc.Buyers.UserLists.Open(name, &rtbv1.OpenUserListRequest{}).Context(ctx).Do()
}

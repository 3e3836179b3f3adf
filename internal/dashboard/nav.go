package dashboard

import "context"

// PageNavigator implements Navigator over the dashboard's HTTP pages. A
// navigation is a full GET of the target page; Reload re-fetches the last
// page navigated to, standing in for the browser's location.reload().
type PageNavigator struct {
	client  *Client
	current string
}

// NewPageNavigator creates a navigator positioned at the dashboard root.
func NewPageNavigator(client *Client) *PageNavigator {
	return &PageNavigator{client: client, current: "/"}
}

func (n *PageNavigator) Navigate(ctx context.Context, path string) error {
	if err := n.client.FetchPage(ctx, path); err != nil {
		return err
	}
	n.current = path
	return nil
}

func (n *PageNavigator) Reload(ctx context.Context) error {
	return n.client.FetchPage(ctx, n.current)
}

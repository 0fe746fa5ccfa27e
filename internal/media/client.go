// Package media talks to a Jellyfin server: authentication, finding
// something to watch, resolving it to a direct-play stream URL, and
// reporting playback state back so watch progress survives restarts.
package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

const (
	clientName    = "Sublingo"
	clientVersion = "0.1.0"
	deviceName    = "Sublingo Desktop"
	deviceID      = "sublingo-1"
)

// Item is a simplified representation of one playable server item.
type Item struct {
	ID            string
	Name          string
	Type          string // Movie, Episode, ...
	SeriesName    string
	Overview      string
	RuntimeTicks  int64
	PositionTicks int64
	Played        bool
}

// Client wraps the generated Jellyfin API client with the handful of calls
// the player needs.
type Client struct {
	api       *jellyfin.APIClient
	ctx       context.Context
	token     string
	userID    string
	serverURL string
}

func normalizeURL(serverURL string) string {
	serverURL = strings.TrimSpace(serverURL)
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "https://" + serverURL
	}
	return strings.TrimRight(serverURL, "/")
}

func NewClient(serverURL string) *Client {
	serverURL = normalizeURL(serverURL)
	cfg := jellyfin.NewConfiguration()
	cfg.Servers = jellyfin.ServerConfigurations{
		{URL: serverURL},
	}
	cfg.AddDefaultHeader("X-Emby-Authorization",
		fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
			clientName, deviceName, deviceID, clientVersion))

	return &Client{
		api:       jellyfin.NewAPIClient(cfg),
		ctx:       context.Background(),
		serverURL: serverURL,
	}
}

// Authenticate logs in with a username and password and keeps the resulting
// access token on the client.
func (c *Client) Authenticate(username, password string) error {
	body := *jellyfin.NewAuthenticateUserByName()
	body.SetUsername(username)
	body.SetPw(password)

	result, resp, err := c.api.UserAPI.AuthenticateUserByName(c.ctx).AuthenticateUserByName(body).Execute()
	if err != nil {
		return fmt.Errorf("auth failed: %w (status: %s)", err, respStatus(resp))
	}
	c.token = result.GetAccessToken()
	user := result.GetUser()
	if user.Id != nil {
		c.userID = *user.Id
	}

	c.api.GetConfig().AddDefaultHeader("X-Emby-Token", c.token)
	return nil
}

// SetToken installs a previously saved token, skipping the password login.
func (c *Client) SetToken(token, userID string) {
	c.token = token
	c.userID = userID
	c.api.GetConfig().AddDefaultHeader("X-Emby-Token", c.token)
}

func (c *Client) Token() string     { return c.token }
func (c *Client) UserID() string    { return c.userID }
func (c *Client) ServerURL() string { return c.serverURL }

// Search finds playable items matching the term.
func (c *Client) Search(term string, limit int) ([]Item, error) {
	result, _, err := c.api.ItemsAPI.GetItems(c.ctx).
		UserId(c.userID).
		SearchTerm(term).
		Recursive(true).
		IncludeItemTypes([]jellyfin.BaseItemKind{jellyfin.BASEITEMKIND_MOVIE, jellyfin.BASEITEMKIND_EPISODE}).
		Limit(int32(limit)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return convertItems(result.Items), nil
}

// ResumeItems returns the user's partially watched items, most recent first.
func (c *Client) ResumeItems(limit int) ([]Item, error) {
	result, _, err := c.api.ItemsAPI.GetResumeItems(c.ctx).
		UserId(c.userID).
		Limit(int32(limit)).
		MediaTypes([]jellyfin.MediaType{jellyfin.MEDIATYPE_VIDEO}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("resume items: %w", err)
	}
	return convertItems(result.Items), nil
}

// StreamURL returns a direct-play streaming URL for an item.
func (c *Client) StreamURL(itemID string) string {
	params := url.Values{}
	params.Set("Static", "true")
	params.Set("api_key", c.token)
	return fmt.Sprintf("%s/Videos/%s/stream?%s",
		c.serverURL, url.PathEscape(itemID), params.Encode())
}

// ReportPlaybackStart notifies the server that playback has started.
func (c *Client) ReportPlaybackStart(itemID string, positionTicks int64) error {
	body := *jellyfin.NewPlaybackStartInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(positionTicks)
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	_, err := c.api.PlaystateAPI.ReportPlaybackStart(c.ctx).PlaybackStartInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback start: %w", err)
	}
	return nil
}

// ReportPlaybackProgress sends a progress update to the server.
func (c *Client) ReportPlaybackProgress(itemID string, positionTicks int64, isPaused bool) error {
	body := *jellyfin.NewPlaybackProgressInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(positionTicks)
	body.SetIsPaused(isPaused)
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	_, err := c.api.PlaystateAPI.ReportPlaybackProgress(c.ctx).PlaybackProgressInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report progress: %w", err)
	}
	return nil
}

// ReportPlaybackStopped notifies the server that playback has stopped.
func (c *Client) ReportPlaybackStopped(itemID string, positionTicks int64) error {
	body := *jellyfin.NewPlaybackStopInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(positionTicks)

	_, err := c.api.PlaystateAPI.ReportPlaybackStopped(c.ctx).PlaybackStopInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback stopped: %w", err)
	}
	return nil
}

// Ticks converts seconds to Jellyfin's 100ns tick unit.
func Ticks(seconds float64) int64 {
	return int64(seconds * 10_000_000)
}

func convertItems(items []jellyfin.BaseItemDto) []Item {
	out := make([]Item, 0, len(items))
	for i := range items {
		out = append(out, convertItem(&items[i]))
	}
	return out
}

func convertItem(item *jellyfin.BaseItemDto) Item {
	it := Item{}
	if item.Id != nil {
		it.ID = *item.Id
	}
	it.Name = item.GetName()
	if item.Type != nil {
		it.Type = string(*item.Type)
	}
	it.SeriesName = item.GetSeriesName()
	it.Overview = item.GetOverview()
	it.RuntimeTicks = item.GetRunTimeTicks()

	if item.UserData.IsSet() {
		if ud := item.UserData.Get(); ud != nil {
			it.PositionTicks = ud.GetPlaybackPositionTicks()
			it.Played = ud.GetPlayed()
		}
	}
	return it
}

func respStatus(resp *http.Response) string {
	if resp == nil {
		return "no response"
	}
	return resp.Status
}

package sources

import (
	"context"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

// Source is one external site adapted into feed form. Collect fetches and
// normalizes the site's current items; it never fills in inherited publish
// dates, that is the reconciler's job.
type Source interface {
	Name() string
	Info() feed.ChannelInfo
	Collect(ctx context.Context) (feed.CollectResult, error)
}

// All returns the full adapter set in a stable order.
func All(client *Client) []Source {
	return []Source{
		NewZennChangelog(client),
		NewLodestoneNews(client),
		NewLodestoneMaintenance(client),
		NewLodestoneObstacle(client),
		NewTdrUpdates(client),
		NewPhysicalUpLettuceClub(client),
		NewRikeiLettuceClub(client),
		NewSekanekoBlog(client),
		NewHiratakeWeb(client),
		NewDev1and(client),
		NewFish4Koma(client),
		NewPopTeamEpic(client),
		NewPopTeamEpic7(client),
		NewPopTeamEpic8(client),
	}
}

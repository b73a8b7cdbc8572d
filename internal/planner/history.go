package planner

import "context"

// resolveHistory determines which titles must be excluded for this
// request. For anonymous callers the exclusion comes straight from the
// caller-supplied history; for known users it is the set of titles served
// within the trailing 90-day window. Declared favorites override the
// recency ban so beloved meals can be repeated on purpose.
//
// History lookup is best-effort: a store failure degrades to an empty
// exclusion set rather than failing the request.
func (p *Planner) resolveHistory(ctx context.Context, req *PlanRequest) map[string]struct{} {
	var recent []string
	if req.Anonymous() {
		recent = req.GenerationHistory
	} else {
		since := p.now().Add(-historyWindow)
		titles, err := p.plans.RecentTitles(ctx, req.UserID, since)
		if err != nil {
			p.log.Warn("history lookup failed, continuing without exclusions",
				"user_id", req.UserID, "error", err)
			return map[string]struct{}{}
		}
		recent = titles
	}

	favorites := make(map[string]struct{}, len(req.FavoriteTitles))
	for _, t := range req.FavoriteTitles {
		favorites[t] = struct{}{}
	}

	excluded := make(map[string]struct{}, len(recent))
	for _, t := range recent {
		if _, fav := favorites[t]; fav {
			continue
		}
		excluded[t] = struct{}{}
	}
	return excluded
}

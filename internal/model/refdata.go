package model

// Campaign is the root of the advertising hierarchy.
type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AdSetRef points an ad set at its owning campaign.
type AdSetRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CampaignID string `json:"campaign_id"`
}

// AdRef points an ad at its owning ad set and campaign. The campaign id is
// denormalized by the upstream API.
type AdRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AdSetID    string `json:"adset_id"`
	CampaignID string `json:"campaign_id"`
}

// ReferenceData holds the three id-keyed lookup tables for one account.
// Rebuilt from scratch on every run; never cached.
type ReferenceData struct {
	Campaigns map[string]Campaign
	AdSets    map[string]AdSetRef
	Ads       map[string]AdRef
}

// NewReferenceData returns empty, non-nil tables.
func NewReferenceData() *ReferenceData {
	return &ReferenceData{
		Campaigns: map[string]Campaign{},
		AdSets:    map[string]AdSetRef{},
		Ads:       map[string]AdRef{},
	}
}

// ResolvedNames is the outcome of walking an object id up the hierarchy.
type ResolvedNames struct {
	Ad       string
	AdSet    string
	Campaign string
}

// Resolve walks objectID through Ad -> AdSet -> Campaign, short-circuiting at
// the first table that contains it. A missing link blanks only its own level.
// Ids absent from all three tables resolve to empty names; that is not an error.
func (r *ReferenceData) Resolve(objectID string) ResolvedNames {
	var out ResolvedNames

	if ad, ok := r.Ads[objectID]; ok {
		out.Ad = ad.Name
		if adset, ok := r.AdSets[ad.AdSetID]; ok {
			out.AdSet = adset.Name
		}
		if camp, ok := r.Campaigns[ad.CampaignID]; ok {
			out.Campaign = camp.Name
		}
		return out
	}

	if adset, ok := r.AdSets[objectID]; ok {
		out.AdSet = adset.Name
		if camp, ok := r.Campaigns[adset.CampaignID]; ok {
			out.Campaign = camp.Name
		}
		return out
	}

	if camp, ok := r.Campaigns[objectID]; ok {
		out.Campaign = camp.Name
	}

	return out
}

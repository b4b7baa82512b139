package socrata

import (
	"encoding/json"
	"fmt"
)

type discoveryResource struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Attribution string `json:"attribution"`
	UpdatedAt   string `json:"updatedAt"`
}

type discoveryClassification struct {
	Categories     []string `json:"categories"`
	Tags           []string `json:"tags"`
	DomainCategory string   `json:"domain_category"`
	DomainTags     []string `json:"domain_tags"`
}

type discoveryResult struct {
	Resource       discoveryResource       `json:"resource"`
	Classification discoveryClassification `json:"classification"`
	Metadata       struct {
		Domain string `json:"domain"`
	} `json:"metadata"`
	Permalink string `json:"permalink"`
	Link      string `json:"link"`
}

type discoveryResponse struct {
	Results       []discoveryResult `json:"results"`
	ResultSetSize int               `json:"resultSetSize"`
	Error         string            `json:"error"`
}

// parseDiscovery maps a Discovery API body onto a Resolution.
func parseDiscovery(id string, body []byte) Resolution {
	var decoded discoveryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return missResolution(id, fmt.Sprintf("failed to decode metadata response: %v", err))
	}

	if decoded.Error != "" {
		// An error reply can still name the dataset; keep the name but
		// treat the lookup as missed
		res := missResolution(id, string(body))
		if len(decoded.Results) > 0 && decoded.Results[0].Resource.Name != "" {
			res.Metadata.Name = decoded.Results[0].Resource.Name
		}
		return res
	}

	if len(decoded.Results) == 0 {
		return missResolution(id, fmt.Sprintf("no dataset found for identifier %s", id))
	}

	result := decoded.Results[0]
	raw, err := json.Marshal(result)
	if err != nil {
		raw = body
	}

	keywords := append([]string(nil), result.Classification.DomainTags...)
	keywords = append(keywords, result.Classification.Tags...)

	return Resolution{
		Found: true,
		Metadata: Metadata{
			Name:        result.Resource.Name,
			ID:          result.Resource.ID,
			Description: result.Resource.Description,
			Datatype:    result.Resource.Type,
			Domain:      result.Metadata.Domain,
			Homepage:    result.Permalink,
			Keywords:    keywords,
			Raw:         string(raw),
		},
	}
}

func missResolution(id, reason string) Resolution {
	return Resolution{
		Metadata: Metadata{
			Name: UnknownName,
			ID:   id,
			Raw:  reason,
		},
	}
}

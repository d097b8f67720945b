package models

// GlobalList is a user-scoped ordered sequence of strings, referenced
// from any of that user's sequences by name (§3).
type GlobalList struct {
	ID      string             `json:"id"`
	OwnerID string             `json:"owner_id"`
	Name    string             `json:"name"`
	Items   []GlobalListItem   `json:"items,omitempty"`
}

// GlobalListItem is one ordered element of a GlobalList.
type GlobalListItem struct {
	ID           string `json:"id"`
	GlobalListID string `json:"global_list_id"`
	Value        string `json:"value"`
	Order        int    `json:"order"`
}

package api

import (
	"net/http"
)

type GroupResp struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type GroupListResp struct {
	Items []GroupResp `json:"items"`
}

func (s *Server) getGroups(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = userIDFrom(ctx)
	)

	groups, err := s.repo.UserGroups(ctx, userID)
	if err != nil {
		return err
	}

	items := make([]GroupResp, 0, len(groups))
	for _, g := range groups {
		items = append(items, GroupResp{ID: g.ID, Title: g.Title})
	}

	return writeJSON(w, http.StatusOK, GroupListResp{Items: items})
}

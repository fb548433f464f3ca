package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"photo-manager/internal/database"
)

func (s *testServer) createAlbum(t *testing.T, token, title string) database.Album {
	t.Helper()

	rec := s.doJSON(t, "POST", "/api/v1/albums", map[string]string{"title": title}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create album %q: status %d, body %s", title, rec.Code, rec.Body.String())
	}
	var album database.Album
	if err := json.Unmarshal(rec.Body.Bytes(), &album); err != nil {
		t.Fatal(err)
	}
	return album
}

func TestAlbumLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "albumist")
	album := s.createAlbum(t, token, "夏日旅行")
	img := s.upload(t, token, "beach.jpg", nil)

	// Duplicate titles are rejected per user
	rec := s.doJSON(t, "POST", "/api/v1/albums", map[string]string{"title": "夏日旅行"}, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate album title: status %d, want 400", rec.Code)
	}

	rec = s.doJSON(t, "POST", fmt.Sprintf("/api/v1/albums/%d/images", album.ID), map[string][]int64{
		"imageIds": {img.ID},
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("add images: status %d", rec.Code)
	}

	rec = s.do(t, "GET", fmt.Sprintf("/api/v1/albums/%d/images", album.ID), nil, "", token)
	if got := decodeSearchResult(t, rec).TotalItems; got != 1 {
		t.Errorf("album members = %d, want 1", got)
	}

	rec = s.doJSON(t, "PATCH", fmt.Sprintf("/api/v1/albums/%d", album.ID), map[string]interface{}{
		"description":  "summer 2024",
		"coverImageId": img.ID,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update album: status %d", rec.Code)
	}

	rec = s.do(t, "GET", fmt.Sprintf("/api/v1/albums/%d", album.ID), nil, "", token)
	var fetched database.Album
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.Description != "summer 2024" || fetched.CoverImageID != img.ID {
		t.Errorf("album after update = %+v", fetched)
	}

	rec = s.doJSON(t, "DELETE", fmt.Sprintf("/api/v1/albums/%d/images", album.ID), map[string]int64{
		"imageId": img.ID,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove image: status %d", rec.Code)
	}

	rec = s.do(t, "DELETE", fmt.Sprintf("/api/v1/albums/%d", album.ID), nil, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete album: status %d", rec.Code)
	}

	// Member photos survive album deletion
	rec = s.do(t, "GET", "/api/v1/images", nil, "", token)
	if got := decodeSearchResult(t, rec).TotalItems; got != 1 {
		t.Errorf("images after album delete = %d, want 1", got)
	}
}

func TestAlbumOwnerScoping(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "albumowner")
	intruder := s.signup(t, "intruder")
	album := s.createAlbum(t, owner, "private collection")

	if rec := s.do(t, "GET", fmt.Sprintf("/api/v1/albums/%d", album.ID), nil, "", intruder); rec.Code != http.StatusNotFound {
		t.Errorf("foreign album get: status %d, want 404", rec.Code)
	}
	if rec := s.do(t, "DELETE", fmt.Sprintf("/api/v1/albums/%d", album.ID), nil, "", intruder); rec.Code != http.StatusNotFound {
		t.Errorf("foreign album delete: status %d, want 404", rec.Code)
	}
}

func TestAddForeignImageToAlbumSkipped(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "imageowner")
	other := s.signup(t, "albumholder")

	foreign := s.upload(t, owner, "not-yours.jpg", nil)
	album := s.createAlbum(t, other, "borrowed")

	rec := s.doJSON(t, "POST", fmt.Sprintf("/api/v1/albums/%d/images", album.ID), map[string][]int64{
		"imageIds": {foreign.ID},
	}, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("add images: status %d", rec.Code)
	}
	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["added"] != 0 {
		t.Errorf("added = %d, want 0 for a foreign image", resp["added"])
	}
}

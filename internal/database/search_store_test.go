package database

import (
	"context"
	"testing"
	"time"

	"photo-manager/internal/search"
)

// seedSearchLibrary inserts a small library with controlled metadata and
// returns the owning user.
func seedSearchLibrary(t *testing.T, db *Database) *User {
	t.Helper()
	user := createTestUser(t, db, "alice")

	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	jun := time.Date(2024, 6, 20, 12, 0, 0, 0, time.Local)

	beach := insertTestImage(t, db, &Image{
		UserID: user.ID, Name: "beach sunset", Folder: "旅行",
		Size: 5 << 20, Width: 4000, Height: 3000,
		Camera: "Canon EOS R5", AICaption: "a golden beach at dusk",
		UploadedAt: jun, TakenAt: &jun,
	})
	cat := insertTestImage(t, db, &Image{
		UserID: user.ID, Name: "IMG_0042", Folder: "宠物",
		Size: 800 << 10, Width: 1920, Height: 1080,
		Camera: "iPhone 15 Pro", AILabels: "cat,sofa",
		UploadedAt: jan, TakenAt: &jan,
	})
	insertTestImage(t, db, &Image{
		UserID: user.ID, Name: "scan_untimed", Folder: "默认图库",
		Size: 200 << 10, Width: 800, Height: 600,
		UploadedAt: jan,
	})

	if err := db.SetImageTags(context.Background(), user.ID, beach, []string{"风景", "日落"}); err != nil {
		t.Fatalf("SetImageTags failed: %v", err)
	}
	if err := db.SetImageTags(context.Background(), user.ID, cat, []string{"猫"}); err != nil {
		t.Fatalf("SetImageTags failed: %v", err)
	}

	album, err := db.CreateAlbum(context.Background(), user.ID, "夏日旅行", "")
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}
	if _, err := db.AddImagesToAlbum(context.Background(), user.ID, album.ID, []int64{beach}); err != nil {
		t.Fatalf("AddImagesToAlbum failed: %v", err)
	}
	return user
}

func resultNames(result *SearchResult) []string {
	names := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		names = append(names, item.Name)
	}
	return names
}

func TestSearchCompiled(t *testing.T) {
	db := newTestDB(t)
	user := seedSearchLibrary(t, db)

	tests := []struct {
		name      string
		pred      search.Predicate
		wantNames []string
	}{
		{
			name:      "match all",
			pred:      search.MatchAll{},
			wantNames: []string{"beach sunset", "IMG_0042", "scan_untimed"},
		},
		{
			name:      "match none",
			pred:      search.MatchNone{},
			wantNames: []string{},
		},
		{
			name:      "keyword hits name",
			pred:      search.Keyword{Term: "beach"},
			wantNames: []string{"beach sunset"},
		},
		{
			name:      "keyword hits tag",
			pred:      search.Keyword{Term: "风景"},
			wantNames: []string{"beach sunset"},
		},
		{
			name:      "keyword hits ai labels",
			pred:      search.Keyword{Term: "cat"},
			wantNames: []string{"IMG_0042"},
		},
		{
			name:      "keyword hits album title",
			pred:      search.Keyword{Term: "夏日"},
			wantNames: []string{"beach sunset"},
		},
		{
			name: "taken range excludes nil capture time",
			pred: search.TimeRange{
				Field: search.TimeTaken,
				Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
				End:   time.Date(2024, 12, 31, 23, 59, 59, 0, time.Local),
			},
			wantNames: []string{"beach sunset", "IMG_0042"},
		},
		{
			name: "upload range binds on uploaded_at",
			pred: search.TimeRange{
				Field: search.TimeUploaded,
				Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
				End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local),
			},
			wantNames: []string{"IMG_0042", "scan_untimed"},
		},
		{
			name:      "size floor",
			pred:      search.SizeAtLeast{Bytes: 1 << 20},
			wantNames: []string{"beach sunset"},
		},
		{
			name:      "min pixels",
			pred:      search.MinPixels{Pixels: 8_000_000},
			wantNames: []string{"beach sunset"},
		},
		{
			name:      "album by folder name",
			pred:      search.AlbumLike{Title: "宠物"},
			wantNames: []string{"IMG_0042"},
		},
		{
			name:      "album by album title",
			pred:      search.AlbumLike{Title: "夏日旅行"},
			wantNames: []string{"beach sunset"},
		},
		{
			name:      "gear",
			pred:      search.GearLike{Text: "iphone"},
			wantNames: []string{"IMG_0042"},
		},
		{
			name: "conjunction",
			pred: search.And{Preds: []search.Predicate{
				search.Keyword{Term: "cat"},
				search.SizeAtMost{Bytes: 1 << 20},
			}},
			wantNames: []string{"IMG_0042"},
		},
		{
			name: "disjunction",
			pred: search.Or{Preds: []search.Predicate{
				search.Keyword{Term: "beach"},
				search.Keyword{Term: "猫"},
			}},
			wantNames: []string{"beach sunset", "IMG_0042"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := db.SearchCompiled(context.Background(), user.ID, tt.pred, "name", false, 0, 0)
			if err != nil {
				t.Fatalf("SearchCompiled failed: %v", err)
			}
			got := resultNames(result)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %v, want %v", got, tt.wantNames)
			}
			want := map[string]bool{}
			for _, name := range tt.wantNames {
				want[name] = true
			}
			for _, name := range got {
				if !want[name] {
					t.Errorf("unexpected result %q, want %v", name, tt.wantNames)
				}
			}
			if result.TotalItems != len(tt.wantNames) {
				t.Errorf("TotalItems = %d, want %d", result.TotalItems, len(tt.wantNames))
			}
		})
	}
}

func TestSearchCompiledScopedToUser(t *testing.T) {
	db := newTestDB(t)
	seedSearchLibrary(t, db)
	bob := createTestUser(t, db, "bob")

	result, err := db.SearchCompiled(context.Background(), bob.ID, search.MatchAll{}, "", false, 0, 0)
	if err != nil {
		t.Fatalf("SearchCompiled failed: %v", err)
	}
	if result.TotalItems != 0 {
		t.Errorf("other user sees %d images, want 0", result.TotalItems)
	}
}

func TestSearchCompiledSortAndPage(t *testing.T) {
	db := newTestDB(t)
	user := seedSearchLibrary(t, db)

	result, err := db.SearchCompiled(context.Background(), user.ID, search.MatchAll{}, "size", true, 2, 0)
	if err != nil {
		t.Fatalf("SearchCompiled failed: %v", err)
	}
	if got := resultNames(result); len(got) != 2 || got[0] != "beach sunset" || got[1] != "IMG_0042" {
		t.Errorf("page = %v, want [beach sunset IMG_0042]", got)
	}
	if result.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3 (unpaged total)", result.TotalItems)
	}

	result, err = db.SearchCompiled(context.Background(), user.ID, search.MatchAll{}, "size", true, 2, 2)
	if err != nil {
		t.Fatalf("SearchCompiled failed: %v", err)
	}
	if got := resultNames(result); len(got) != 1 || got[0] != "scan_untimed" {
		t.Errorf("second page = %v, want [scan_untimed]", got)
	}
}

func TestKeywordFoldsNonASCIICase(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	insertTestImage(t, db, &Image{UserID: user.ID, Name: "Фото у Моря"})
	insertTestImage(t, db, &Image{UserID: user.ID, Name: "CAFÉ CRÈME"})

	// Cyrillic and accented capitals are outside sqlite's ASCII-only
	// lower(); these only match through the registered ulower().
	for _, term := range []string{"фото", "crème"} {
		result, err := db.SearchCompiled(context.Background(), user.ID, search.Keyword{Term: term}, "", false, 0, 0)
		if err != nil {
			t.Fatalf("SearchCompiled(%q) failed: %v", term, err)
		}
		if result.TotalItems != 1 {
			t.Errorf("term %q matched %d images, want 1", term, result.TotalItems)
		}
	}
}

func TestSearchCompiledSortByTagCount(t *testing.T) {
	db := newTestDB(t)
	user := seedSearchLibrary(t, db)

	result, err := db.SearchCompiled(context.Background(), user.ID, search.MatchAll{}, "tags", true, 0, 0)
	if err != nil {
		t.Fatalf("SearchCompiled failed: %v", err)
	}
	got := resultNames(result)
	if len(got) != 3 || got[0] != "beach sunset" || got[2] != "scan_untimed" {
		t.Errorf("got %v, want most-tagged first and untagged last", got)
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	insertTestImage(t, db, &Image{UserID: user.ID, Name: "sale 100% off"})
	insertTestImage(t, db, &Image{UserID: user.ID, Name: "100 percent"})

	result, err := db.SearchCompiled(context.Background(), user.ID, search.Keyword{Term: "100%"}, "", false, 0, 0)
	if err != nil {
		t.Fatalf("SearchCompiled failed: %v", err)
	}
	if got := resultNames(result); len(got) != 1 || got[0] != "sale 100% off" {
		t.Errorf("got %v, want literal %% match only", got)
	}
}

func TestStructuredSearch(t *testing.T) {
	db := newTestDB(t)
	user := seedSearchLibrary(t, db)

	result, err := db.StructuredSearch(context.Background(), user.ID, Filters{
		Tags:    []string{"风景"},
		MinSize: 1 << 20,
	})
	if err != nil {
		t.Fatalf("StructuredSearch failed: %v", err)
	}
	if got := resultNames(result); len(got) != 1 || got[0] != "beach sunset" {
		t.Errorf("got %v, want [beach sunset]", got)
	}

	result, err = db.StructuredSearch(context.Background(), user.ID, Filters{Folder: "宠物"})
	if err != nil {
		t.Fatalf("StructuredSearch failed: %v", err)
	}
	if got := resultNames(result); len(got) != 1 || got[0] != "IMG_0042" {
		t.Errorf("got %v, want [IMG_0042]", got)
	}
}

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	user := seedSearchLibrary(t, db)

	recycled := insertTestImage(t, db, &Image{UserID: user.ID, Name: "trash", Size: 1 << 10})
	if err := db.RecycleImage(context.Background(), user.ID, recycled); err != nil {
		t.Fatalf("RecycleImage failed: %v", err)
	}

	stats, err := db.GetUserStats(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if stats.ActiveImages != 3 {
		t.Errorf("ActiveImages = %d, want 3", stats.ActiveImages)
	}
	if stats.RecycledImages != 1 {
		t.Errorf("RecycledImages = %d, want 1", stats.RecycledImages)
	}
	if stats.DeletedToday != 1 {
		t.Errorf("DeletedToday = %d, want 1", stats.DeletedToday)
	}
	if stats.TotalAlbums != 1 || stats.TotalTags != 3 {
		t.Errorf("albums/tags = %d/%d, want 1/3", stats.TotalAlbums, stats.TotalTags)
	}
}

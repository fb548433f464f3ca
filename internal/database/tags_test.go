package database

import (
	"context"
	"reflect"
	"testing"
)

func TestGetOrCreateTagReusesCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	first, err := db.GetOrCreateTag(context.Background(), user.ID, "Sunset")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := db.GetOrCreateTag(context.Background(), user.ID, "sunset")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("got two tag ids %d and %d, want one tag", first.ID, second.ID)
	}
}

func TestTagColorDeterministic(t *testing.T) {
	if tagColor("风景") != tagColor("风景") {
		t.Error("same name produced different colors")
	}
	for _, name := range []string{"a", "风景", "sunset", "日落"} {
		color := tagColor(name)
		found := false
		for _, c := range tagPalette {
			if c == color {
				found = true
			}
		}
		if !found {
			t.Errorf("tagColor(%q) = %q, not in palette", name, color)
		}
	}
}

func TestSetImageTagsReplaces(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	id := insertTestImage(t, db, &Image{UserID: user.ID, Name: "photo"})

	if err := db.SetImageTags(context.Background(), user.ID, id, []string{"风景", "日落", "风景"}); err != nil {
		t.Fatalf("SetImageTags failed: %v", err)
	}
	got, err := db.GetImage(context.Background(), user.ID, id)
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("got %d tags, want 2 (duplicates collapsed): %v", len(got.Tags), got.Tags)
	}

	if err := db.SetImageTags(context.Background(), user.ID, id, []string{"宠物"}); err != nil {
		t.Fatalf("SetImageTags failed: %v", err)
	}
	got, err = db.GetImage(context.Background(), user.ID, id)
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"宠物"}) {
		t.Errorf("tags = %v, want [宠物]", got.Tags)
	}
}

func TestListTagsCountsActiveImagesOnly(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	a := insertTestImage(t, db, &Image{UserID: user.ID, Name: "a"})
	b := insertTestImage(t, db, &Image{UserID: user.ID, Name: "b"})
	for _, id := range []int64{a, b} {
		if err := db.SetImageTags(context.Background(), user.ID, id, []string{"风景"}); err != nil {
			t.Fatalf("SetImageTags failed: %v", err)
		}
	}
	if err := db.RecycleImage(context.Background(), user.ID, b); err != nil {
		t.Fatalf("RecycleImage failed: %v", err)
	}

	tags, err := db.ListTags(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("got %d tags, want 1", len(tags))
	}
	if tags[0].ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1 (recycled image excluded)", tags[0].ItemCount)
	}
}

func TestDeleteTagUnlinksImages(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	id := insertTestImage(t, db, &Image{UserID: user.ID, Name: "photo"})

	if err := db.SetImageTags(context.Background(), user.ID, id, []string{"风景"}); err != nil {
		t.Fatalf("SetImageTags failed: %v", err)
	}
	tags, err := db.ListTags(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if err := db.DeleteTag(context.Background(), user.ID, tags[0].ID); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}

	got, err := db.GetImage(context.Background(), user.ID, id)
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("image still carries tags %v after DeleteTag", got.Tags)
	}
}

package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/habitloop/habitloop/controllers"
	"github.com/habitloop/habitloop/models"
)

func TestLeaderboardOrdersByPoints(t *testing.T) {
	db := setupTestDB(t)
	for _, u := range []models.User{
		{Username: "first", TotalPoints: 300, WeeklyPoints: 10},
		{Username: "second", TotalPoints: 200, WeeklyPoints: 150},
		{Username: "third", TotalPoints: 100, WeeklyPoints: 50},
	} {
		u := u
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	lc := controllers.NewLeaderboardController(db)
	r := gin.New()
	r.GET("/leaderboard", lc.GetLeaderboard)

	w, env := doJSON(t, r, "GET", "/leaderboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard: status %d", w.Code)
	}
	var payload struct {
		Period      string `json:"period"`
		Leaderboard []struct {
			Rank     int    `json:"rank"`
			Username string `json:"username"`
			Points   int    `json:"points"`
		} `json:"leaderboard"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Period != "total" || len(payload.Leaderboard) != 3 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Leaderboard[0].Username != "first" || payload.Leaderboard[0].Rank != 1 {
		t.Fatalf("top entry = %+v", payload.Leaderboard[0])
	}
	if payload.Leaderboard[2].Points != 100 {
		t.Fatalf("last entry points = %d, want 100", payload.Leaderboard[2].Points)
	}

	// Weekly period reorders by the weekly counter.
	_, env = doJSON(t, r, "GET", "/leaderboard?period=weekly", nil)
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode weekly: %v", err)
	}
	if payload.Leaderboard[0].Username != "second" || payload.Leaderboard[0].Points != 150 {
		t.Fatalf("weekly top = %+v", payload.Leaderboard[0])
	}

	if w, _ := doJSON(t, r, "GET", "/leaderboard?period=alltime", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad period: status %d, want 400", w.Code)
	}
}

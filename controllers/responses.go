package controllers

import (
	"time"

	"guildhall/models"
	"guildhall/services"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	GMStatus  bool      `json:"gm_status"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
}

type PaginatedUsersResponse struct {
	Users    []UserResponse `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type WeaponResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Damage     string `json:"damage"`
	Range      int    `json:"range"`
	MaxRange   int    `json:"max_range"`
	Weight     int    `json:"weight"`
	WType      string `json:"w_type"`
	AType      string `json:"a_type"`
	Properties string `json:"properties"`
}

type CharacterResponse struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	Level            int              `json:"level"`
	Speed            int              `json:"speed"`
	Age              int              `json:"age"`
	Origin           string           `json:"origin"`
	CurrentResidence string           `json:"current_residence"`
	BornRace         string           `json:"born_race"`
	CurrentRace      string           `json:"current_race"`
	Affiliations     string           `json:"affiliations"`
	UserID           uint             `json:"user_id"`
	Weapons          []WeaponResponse `json:"weapons,omitempty"`
}

type ArticleResponse struct {
	ID        uint      `json:"id"`
	Headline  string    `json:"headline"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

type ProfileResponse struct {
	User      UserResponse       `json:"user"`
	Avatar    string             `json:"avatar"`
	Character *CharacterResponse `json:"character"`
	Articles  []ArticleResponse  `json:"articles"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	User      UserResponse      `json:"user"`
	Character CharacterResponse `json:"character"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type InTeamResponse struct {
	Username string `json:"username"`
	InTeam   bool   `json:"in_team"`
}

type SystemResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GameResponse struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	System     string   `json:"system,omitempty"`
	GameMaster string   `json:"game_master"`
	Capacity   int      `json:"capacity"`
	Players    []string `json:"players"`
}

// --- Helpers to map models to responses ---

func mapUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		GMStatus:  user.GMStatus,
		LastSeen:  user.LastSeen,
		CreatedAt: user.CreatedAt,
	}
}

func mapUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = mapUser(&users[i])
	}
	return out
}

func mapWeapon(w *models.Weapon) WeaponResponse {
	return WeaponResponse{
		ID:         w.ID,
		Name:       w.Name,
		Damage:     w.Damage,
		Range:      w.Range,
		MaxRange:   w.MaxRange,
		Weight:     w.Weight,
		WType:      w.WType,
		AType:      w.AType,
		Properties: w.Properties,
	}
}

func mapWeapons(weapons []models.Weapon) []WeaponResponse {
	out := make([]WeaponResponse, len(weapons))
	for i := range weapons {
		out[i] = mapWeapon(&weapons[i])
	}
	return out
}

func mapCharacter(c *models.Character) CharacterResponse {
	resp := CharacterResponse{
		ID:               c.ID,
		Name:             c.Name,
		Level:            c.Level,
		Speed:            c.Speed,
		Age:              c.Age,
		Origin:           c.Origin,
		CurrentResidence: c.CurrentResidence,
		BornRace:         c.BornRace,
		CurrentRace:      c.CurrentRace,
		Affiliations:     c.Affiliations,
		UserID:           c.UserID,
	}
	if len(c.Weapons) > 0 {
		resp.Weapons = mapWeapons(c.Weapons)
	}
	return resp
}

func mapCharacters(chars []models.Character) []CharacterResponse {
	out := make([]CharacterResponse, len(chars))
	for i := range chars {
		out[i] = mapCharacter(&chars[i])
	}
	return out
}

func mapProfile(p *services.Profile) ProfileResponse {
	resp := ProfileResponse{
		User:     mapUser(p.User),
		Avatar:   p.Avatar,
		Articles: make([]ArticleResponse, len(p.Articles)),
	}
	if p.Character != nil {
		c := mapCharacter(p.Character)
		resp.Character = &c
	}
	for i, a := range p.Articles {
		resp.Articles[i] = ArticleResponse{ID: a.ID, Headline: a.Headline, Body: a.Body, Timestamp: a.Timestamp}
	}
	return resp
}

func mapGame(g *models.Game) GameResponse {
	resp := GameResponse{
		ID:         g.ID,
		Name:       g.Name,
		GameMaster: g.GameMaster.Username,
		Capacity:   g.Capacity,
		Players:    make([]string, len(g.Players)),
	}
	if g.System != nil {
		resp.System = g.System.Name
	}
	for i, p := range g.Players {
		resp.Players[i] = p.Username
	}
	return resp
}

func mapGames(games []models.Game) []GameResponse {
	out := make([]GameResponse, len(games))
	for i := range games {
		out[i] = mapGame(&games[i])
	}
	return out
}

package converter

import (
	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/service"
)

type RoomSummaryResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	CallActive       bool     `json:"callActive"`
	CallParticipants []string `json:"callParticipants"`
}

type RoomDetailResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Members     int    `json:"members"`
	Description string `json:"description"`
}

type ChatResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	LastMessage *domain.Message `json:"lastMessage,omitempty"`
}

type ProfileResponse struct {
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
}

func RoomSummariesToApi(summaries []service.RoomSummary) []RoomSummaryResponse {
	result := make([]RoomSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		participants := s.CallParticipants
		if participants == nil {
			participants = []string{}
		}
		result = append(result, RoomSummaryResponse{
			ID:               s.ID,
			Name:             s.Name,
			Type:             string(s.Kind),
			CallActive:       s.CallActive,
			CallParticipants: participants,
		})
	}
	return result
}

func RoomDetailToApi(detail *service.RoomDetail) *RoomDetailResponse {
	return &RoomDetailResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Type:        string(detail.Kind),
		Members:     detail.MemberCount,
		Description: "No description",
	}
}

func ChatsToApi(chats []service.ChatSummary) []ChatResponse {
	result := make([]ChatResponse, 0, len(chats))
	for _, c := range chats {
		result = append(result, ChatResponse{
			ID:          c.ID,
			Name:        c.Name,
			Type:        string(c.Kind),
			LastMessage: c.LastMessage,
		})
	}
	return result
}

func ProfileToApi(profile *domain.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		DisplayName: profile.DisplayName,
		Avatar:      profile.Avatar,
	}
}

package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Color       string      `json:"color"`
	Icon        string      `json:"icon,omitempty"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	AdminID     uuid.UUID   `json:"admin_id"`
	Owner       *UserRefDTO `json:"owner,omitempty"`
	Admin       *UserRefDTO `json:"admin,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// WorkspaceDetailDTO adds members and counts to a workspace
type WorkspaceDetailDTO struct {
	WorkspaceDTO
	Members      []MemberDTO `json:"members"`
	MemberCount  int         `json:"member_count"`
	ProjectCount int64       `json:"project_count"`
}

// MemberDTO represents a workspace or project membership
type MemberDTO struct {
	UserID   uuid.UUID   `json:"user_id"`
	User     *UserRefDTO `json:"user,omitempty"`
	JoinedAt time.Time   `json:"joined_at"`
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(ws models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		Color:       ws.Color,
		Icon:        ws.Icon,
		OwnerID:     ws.OwnerID,
		AdminID:     ws.AdminID,
		Owner:       toUserRef(ws.Owner),
		Admin:       toUserRef(ws.Admin),
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}

// ToWorkspaceDetailDTO converts a WorkspaceDetail
func ToWorkspaceDetailDTO(d *services.WorkspaceDetail) WorkspaceDetailDTO {
	members := Map(d.Members, ToWorkspaceMemberDTO)
	return WorkspaceDetailDTO{
		WorkspaceDTO: ToWorkspaceDTO(*d.Workspace),
		Members:      members,
		MemberCount:  len(members),
		ProjectCount: d.ProjectCount,
	}
}

// ToWorkspaceMemberDTO converts a WorkspaceMember
func ToWorkspaceMemberDTO(m models.WorkspaceMember) MemberDTO {
	return MemberDTO{UserID: m.UserID, User: toUserRef(m.User), JoinedAt: m.JoinedAt}
}

// ToProjectMemberDTO converts a ProjectMember
func ToProjectMemberDTO(m models.ProjectMember) MemberDTO {
	return MemberDTO{UserID: m.UserID, User: toUserRef(m.User), JoinedAt: m.JoinedAt}
}

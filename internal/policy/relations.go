package policy

import "strings"

// Relation is a single ownership or membership fact linking a user to a resource.
type Relation uint16

const (
	IsGlobalAdmin Relation = 1 << iota
	IsWorkspaceAdmin
	IsWorkspaceOwner
	IsWorkspaceMember
	IsProjectOwner
	IsProjectMember
	IsTaskAssignee
	IsTaskCreator
	IsReportOwner
	IsSelf
)

var relationNames = []struct {
	rel  Relation
	name string
}{
	{IsGlobalAdmin, "GlobalAdmin"},
	{IsWorkspaceAdmin, "WorkspaceAdmin"},
	{IsWorkspaceOwner, "WorkspaceOwner"},
	{IsWorkspaceMember, "WorkspaceMember"},
	{IsProjectOwner, "ProjectOwner"},
	{IsProjectMember, "ProjectMember"},
	{IsTaskAssignee, "TaskAssignee"},
	{IsTaskCreator, "TaskCreator"},
	{IsReportOwner, "ReportOwner"},
	{IsSelf, "Self"},
}

// RelationSet is an immutable set of relations.
type RelationSet uint16

// NewRelationSet builds a set from the given relations.
func NewRelationSet(rels ...Relation) RelationSet {
	var s RelationSet
	for _, r := range rels {
		s |= RelationSet(r)
	}
	return s
}

// Has reports whether r is in the set.
func (s RelationSet) Has(r Relation) bool { return s&RelationSet(r) != 0 }

// HasAny reports whether at least one of rels is in the set.
func (s RelationSet) HasAny(rels ...Relation) bool {
	for _, r := range rels {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// With returns a copy of the set with r added.
func (s RelationSet) With(r Relation) RelationSet { return s | RelationSet(r) }

// WithIf adds r when cond holds.
func (s RelationSet) WithIf(r Relation, cond bool) RelationSet {
	if cond {
		return s.With(r)
	}
	return s
}

// Empty reports whether no relation holds.
func (s RelationSet) Empty() bool { return s == 0 }

// Names lists the relations in declaration order.
func (s RelationSet) Names() []string {
	names := make([]string, 0, len(relationNames))
	for _, rn := range relationNames {
		if s.Has(rn.rel) {
			names = append(names, rn.name)
		}
	}
	return names
}

func (s RelationSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

func (r Relation) String() string {
	for _, rn := range relationNames {
		if rn.rel == r {
			return rn.name
		}
	}
	return "Unknown"
}

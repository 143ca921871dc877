package models

type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
	VoteNone    VoteKind = "none"
)

func ParseVoteKind(s string) (VoteKind, error) {
	switch k := VoteKind(s); k {
	case VoteLike, VoteDislike, VoteNone:
		return k, nil
	default:
		return "", ErrInvalidVote
	}
}

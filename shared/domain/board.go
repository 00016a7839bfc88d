package domain

import "time"

const (
	BoardDateLayout = "2006-01-02"
	BoardTimeLayout = "15:04:05"
)

// SoftDelete marks a post or comment removed. It only ever moves forward:
// deleted documents are never revived.
type SoftDelete struct {
	Deleted     bool    `bson:"deleted" json:"deleted"`
	DeletedDate *string `bson:"deletedDate" json:"deletedDate"`
	DeletedTime *string `bson:"deletedTime" json:"deletedTime"`
}

// Stamp is the date/time pair written on creation and deletion.
type Stamp struct {
	Date string
	Time string
}

func NewStamp(t time.Time) Stamp {
	return Stamp{Date: t.Format(BoardDateLayout), Time: t.Format(BoardTimeLayout)}
}

type Post struct {
	Id             Id       `bson:"_id,omitempty" json:"id"`
	Title          string   `bson:"title" json:"title"`
	Content        string   `bson:"content" json:"content"`
	ContentHtml    string   `bson:"-" json:"contentHtml,omitempty"`
	WriterId       UserId   `bson:"writerId" json:"writerId"`
	WriterNickname Nickname `bson:"writerNickname" json:"writerNickname"`
	WriterTeam     Team     `bson:"writerTeam,omitempty" json:"writerTeam,omitempty"`
	CreatedDate    string   `bson:"createdDate" json:"createdDate"`
	CreatedTime    string   `bson:"createdTime" json:"createdTime"`
	ViewCount      int      `bson:"viewCount" json:"viewCount"`
	IsNotice       bool     `bson:"isNotice" json:"isNotice"`
	IsAnswered     bool     `bson:"isAnswered" json:"isAnswered"`
	SoftDelete     `bson:",inline"`
}

type PostPatch struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	IsNotice   *bool   `json:"isNotice"`
	IsAnswered *bool   `json:"isAnswered"`
}

func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsNotice == nil && p.IsAnswered == nil
}

type Comment struct {
	Id             Id       `bson:"_id,omitempty" json:"id"`
	PostId         Id       `bson:"postId" json:"postId"`
	WriterId       UserId   `bson:"writerId" json:"writerId"`
	WriterNickname Nickname `bson:"writerNickname" json:"writerNickname"`
	WriterTeam     Team     `bson:"writerTeam,omitempty" json:"writerTeam,omitempty"`
	LegacyTeam     Team     `bson:"team,omitempty" json:"-"`
	Content        string   `bson:"content" json:"content"`
	ContentHtml    string   `bson:"-" json:"contentHtml,omitempty"`
	CreatedDate    string   `bson:"createdDate" json:"createdDate"`
	CreatedTime    string   `bson:"createdTime" json:"createdTime"`
	SoftDelete     `bson:",inline"`
}

// Normalize fills fields that older comments stored under other names.
func (c *Comment) Normalize() {
	if c.WriterTeam == "" {
		c.WriterTeam = c.LegacyTeam
	}
	c.LegacyTeam = ""
}

// PostPage is one page of the board listing. Page is zero based.
type PostPage struct {
	Posts         []Post
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

package render

import (
	"bytes"
	"html/template"
	"time"

	"github.com/Glutix/blog-musical/internal/services"
)

// CommentView is the serialization-ready shape of one comment subtree. The
// same value backs both output modes: marshal it for JSON callers, or pass
// it to CommentFragment for an HTML fragment. The boundary layer picks the
// mode from content negotiation.
type CommentView struct {
	ID          uint           `json:"id"`
	Author      string         `json:"author"`
	AuthorID    uint           `json:"author_id"`
	Content     string         `json:"content"`
	ContentHTML template.HTML  `json:"content_html"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Liked       bool           `json:"liked"`
	LikeCount   int64          `json:"like_count"`
	Replies     []*CommentView `json:"replies"`
}

// NewCommentView converts an annotated comment node, rendering every body in
// the subtree once.
func NewCommentView(node *services.CommentNode) *CommentView {
	view := &CommentView{
		ID:          node.ID,
		Author:      node.User.Username,
		AuthorID:    node.UserID,
		Content:     node.Content,
		ContentHTML: Markdown(node.Content),
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
		Liked:       node.Liked,
		LikeCount:   node.LikeCount,
		Replies:     make([]*CommentView, 0, len(node.Replies)),
	}
	for _, reply := range node.Replies {
		view.Replies = append(view.Replies, NewCommentView(reply))
	}
	return view
}

// NewCommentViews converts a whole forest.
func NewCommentViews(nodes []*services.CommentNode) []*CommentView {
	views := make([]*CommentView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, NewCommentView(node))
	}
	return views
}

var commentTmpl = template.Must(template.New("comment_tree").Parse(`{{define "comment"}}<div class="comment" id="comment-{{.ID}}" data-comment-id="{{.ID}}">
  <div class="comment-meta">
    <span class="comment-author">{{.Author}}</span>
    <time class="comment-date" datetime="{{.CreatedAt.Format "2006-01-02T15:04:05Z07:00"}}">{{.CreatedAt.Format "02/01/2006 15:04"}}</time>
  </div>
  <div class="comment-body">{{.ContentHTML}}</div>
  <div class="comment-actions">
    <button class="comment-like-btn{{if .Liked}} liked{{end}}" data-comment-id="{{.ID}}">
      <span class="like-count">{{.LikeCount}}</span>
    </button>
    <button class="comment-reply-btn" data-comment-id="{{.ID}}">Responder</button>
  </div>
  {{if .Replies}}<div class="comment-replies">{{range .Replies}}{{template "comment" .}}{{end}}</div>{{end}}
</div>{{end}}{{template "comment" .}}`))

// CommentFragment renders one comment subtree as a standalone HTML fragment
// for AJAX callers that swap just the changed part of the page.
func CommentFragment(node *services.CommentNode) (template.HTML, error) {
	var buf bytes.Buffer
	if err := commentTmpl.Execute(&buf, NewCommentView(node)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// CommentContentFragment renders only the comment body, used after an inline
// edit to replace the text without rebuilding the subtree.
func CommentContentFragment(content string) template.HTML {
	return Markdown(content)
}

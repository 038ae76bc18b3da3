package domain

import (
	"fmt"
	"time"
)

// for debug
func (p *Post) String() string {
	img := ""
	if p.ImageURL != nil {
		img = *p.ImageURL
	}
	return fmt.Sprintf("[/%s/%d#%d name:%s op:%t image:%s created:%s]", p.Board, p.ThreadNumber, p.Number, p.Name, p.IsOp, img, p.CreatedAt.Format(time.StampMilli))
}

func (t *Thread) String() string {
	return fmt.Sprintf("[/%s/%d pinned:%t locked:%t replies:%d images:%d last_bump:%s]", t.Board, t.Number, t.IsPinned, t.IsLocked, t.Replies, t.Images, t.LastBumpTime.Format(time.StampMilli))
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/grading"
	"github.com/Veraticus/khru/internal/service"
)

const notEntered = "ไม่ได้กรอก"

// MaxIndicatorLength is the longest indicator text the prompt asks for.
const MaxIndicatorLength = 150

// Advisor turns gradebook data into prompts and validates the replies.
type Advisor struct {
	client Client
}

// NewAdvisor wraps client as a service.Advisor.
func NewAdvisor(client Client) *Advisor {
	return &Advisor{client: client}
}

var _ service.Advisor = (*Advisor)(nil)

// StudyTips asks for a short Thai study recommendation for one student.
func (a *Advisor) StudyTips(ctx context.Context, req service.TipsRequest) (string, error) {
	out, err := a.client.Complete(ctx, Request{Prompt: studyTipsPrompt(req)})
	if err != nil {
		return "", common.External("study tips", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", common.External("study tips", errors.New("empty response"))
	}
	return out, nil
}

// SuggestIndicators asks for curriculum indicators. Any reply that is not a
// JSON array of strings is an external failure.
func (a *Advisor) SuggestIndicators(ctx context.Context, req service.IndicatorRequest) ([]string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, common.Invalidf("indicator query is empty")
	}
	out, err := a.client.Complete(ctx, Request{Prompt: indicatorPrompt(req), JSON: true})
	if err != nil {
		return nil, common.External("indicator suggestions", err)
	}
	items, err := parseIndicatorList(out)
	if err != nil {
		return nil, common.External("indicator suggestions", err)
	}
	return items, nil
}

func parseIndicatorList(raw string) ([]string, error) {
	body := cleanMarkdownWrapper(raw)
	if !strings.HasPrefix(body, "[") {
		return nil, fmt.Errorf("response is not a JSON array: %s", truncate(body, 80))
	}
	var items []string
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of strings: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out, nil
}

func rawScore(v *float64) string {
	if v == nil {
		return notEntered
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func totalScore(v *float64) string {
	if v == nil {
		return notEntered
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func studyTipsPrompt(req service.TipsRequest) string {
	s := req.Score
	t := grading.TotalsOf(s)
	mcw := strconv.FormatFloat(req.Max.Classwork, 'f', -1, 64)
	mex := strconv.FormatFloat(req.Max.Exam, 'f', -1, 64)
	term := strconv.FormatFloat(req.Max.TermTotal(), 'f', -1, 64)

	var b strings.Builder
	fmt.Fprintf(&b, "นักเรียนชื่อ: %s\n", req.StudentName)
	fmt.Fprintf(&b, "วิชา: %s\n", req.SubjectName)
	fmt.Fprintf(&b, "คะแนนเต็มต่อภาคเรียน: เก็บ %s คะแนน, สอบ %s คะแนน (รวม %s คะแนน)\n", mcw, mex, term)
	b.WriteString("ผลการเรียน:\n")
	fmt.Fprintf(&b, "- ภาคเรียนที่ 1: คะแนนเก็บ %s, คะแนนสอบ %s, รวม %s\n",
		rawScore(s.Term1Classwork), rawScore(s.Term1Exam), totalScore(t.Term1))
	fmt.Fprintf(&b, "- ภาคเรียนที่ 2: คะแนนเก็บ %s, คะแนนสอบ %s, รวม %s\n\n",
		rawScore(s.Term2Classwork), rawScore(s.Term2Exam), totalScore(t.Term2))
	b.WriteString("จากข้อมูลผลการเรียนของนักเรียนข้างต้น กรุณาให้คำแนะนำในการเรียนวิชานี้ (เป็นภาษาไทย) ")
	b.WriteString("โดยเน้นจุดที่ควรปรับปรุง และให้กำลังใจ ควรมีความยาวประมาณ 3-5 ประโยคที่เข้าใจง่ายสำหรับนักเรียนและผู้ปกครอง")
	return b.String()
}

func indicatorPrompt(req service.IndicatorRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "สำหรับวิชา %q ระดับชั้น %q, ", strings.TrimSpace(req.Query), req.ClassName)
	b.WriteString("กรุณาค้นหาตัวชี้วัดผลการเรียนรู้ที่คาดหวังในหลักสูตรแกนกลางของประเทศไทย (หรือตัวชี้วัดที่เกี่ยวข้องหากเป็นวิชาเพิ่มเติม)\n")
	fmt.Fprintf(&b, "กรุณาตอบกลับเป็น JSON array ของ strings โดยแต่ละ string คือตัวชี้วัดหนึ่งรายการ และแต่ละรายการควรสั้นกระชับ ไม่เกิน %d ตัวอักษร ", MaxIndicatorLength)
	b.WriteString(`ตัวอย่างเช่น: ["อ่านออกเสียงคำและข้อความสั้นๆได้ถูกต้อง", "คำนวณบวกลบเลขไม่เกิน 100 ได้"]` + "\n")
	b.WriteString("หากไม่พบข้อมูลที่ตรงกัน ให้ตอบกลับเป็น JSON array ว่าง []")
	return b.String()
}

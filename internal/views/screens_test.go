package views

import (
	"strings"
	"testing"
)

func TestRenderAlarmListBadges(t *testing.T) {
	out := RenderAlarmList(AlarmListData{
		User:       "tester",
		SelectedID: "b",
		Items: []AlarmRowData{
			{ID: "a", Name: "철분", Time: "오전 09 : 00", Status: "COMPLETED", DueToday: true},
			{ID: "b", Name: "아연", Time: "오전 09 : 30", Original: "오전 09 : 00", Status: "SNOOZED", DueToday: true},
			{ID: "c", Name: "칼슘", Time: "오후 09 : 00", Days: []string{"토", "일"}, Status: "ACTIVE"},
			{ID: "d", Name: "루테인", Time: "오후 01 : 00", Status: "ACTIVE", DueToday: true},
		},
	})
	for _, want := range []string{
		"[DONE] 오전 09 : 00 철분",
		">  2. [SNOOZ] 오전 09 : 30 아연 (was 오전 09 : 00)",
		"[OFF] 오후 09 : 00 칼슘 [토일]",
		"[ON] 오후 01 : 00 루테인",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in list:\n%s", want, out)
		}
	}
}

func TestRenderAlarmDetailEmpty(t *testing.T) {
	if got := RenderAlarmDetail(AlarmDetailData{}); !strings.Contains(got, "(no selection)") {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestConflictMarkdownQuotesEachLine(t *testing.T) {
	got := ConflictMarkdown("첫 줄\n둘째 줄\n")
	want := "### 복용 주의\n\n> 첫 줄\n> 둘째 줄\n"
	if got != want {
		t.Fatalf("unexpected markdown %q", got)
	}
	if ConflictMarkdown("  ") != "" {
		t.Fatalf("blank message should render nothing")
	}
}

func TestRenderFirePopup(t *testing.T) {
	out := RenderFirePopup(FirePopupData{Name: "철분", Time: "오전 08 : 00", Queued: 2, SnoozeMinutes: 30})
	for _, want := range []string{"철분 드실 시간입니다.", "30분 뒤 다시 알림", "(+2 more)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in popup:\n%s", want, out)
		}
	}
}

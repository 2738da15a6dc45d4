package transcript

import "testing"

func TestRender(t *testing.T) {
	segments := []Segment{
		{Speaker: "Bob", Text: "hi", StartTime: 0.0, EndTime: 1.0},
		{Speaker: "Amy", Text: "hello", StartTime: 0.5, EndTime: 2.0},
	}

	want := "1\n00:00:00,000 --> 00:00:01,000\n[Bob]: hi\n\n" +
		"2\n00:00:00,500 --> 00:00:02,000\n[Amy]: hello"

	if got := Render(segments); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	segments := []Segment{
		{Speaker: "Alice", Text: "first", StartTime: 1.25, EndTime: 2.5},
		{Speaker: "Bob", Text: "second", StartTime: 3661.2505, EndTime: 3662},
	}

	first := Render(segments)
	second := Render(segments)
	if first != second {
		t.Errorf("Render() not deterministic:\n%q\n%q", first, second)
	}
}

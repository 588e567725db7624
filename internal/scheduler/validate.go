package scheduler

import (
	"fmt"

	"github.com/noah-isme/timetable-scheduler/internal/domain"
)

// validatePrerequisites checks everything a run needs before any search
// starts: obligations exist, at least one classroom, at least one
// laboratory room if any lab obligation exists, every non-elective
// semester course for the section is covered by an obligation.
func validatePrerequisites(sc *domain.ScheduleContext, obligations []domain.TeachingObligation) []string {
	var gaps []string

	if len(obligations) == 0 {
		gaps = append(gaps, "no teaching obligations registered for this section")
	}
	if len(sc.Slots) == 0 {
		gaps = append(gaps, "no time-slots configured")
	}

	classrooms := sc.RoomsOfType(false)
	if len(classrooms) == 0 {
		gaps = append(gaps, "no classroom available")
	}

	needsLab := false
	for _, ob := range obligations {
		if ob.IsLab() {
			needsLab = true
			break
		}
	}
	if needsLab && len(sc.RoomsOfType(true)) == 0 {
		gaps = append(gaps, "lab obligations present but no laboratory room available")
	}

	section, ok := sc.Sections[sc.TargetSection]
	if !ok {
		gaps = append(gaps, fmt.Sprintf("section %d not found", sc.TargetSection))
		return gaps
	}

	coveredCourses := make(map[domain.CourseID]bool)
	for _, ob := range obligations {
		coveredCourses[ob.Course] = true
	}
	for _, c := range sc.Courses {
		if c.IsElective || c.Semester != section.Semester {
			continue
		}
		if !coveredCourses[c.ID] {
			gaps = append(gaps, fmt.Sprintf("course %s (semester %d) has no teaching obligation", c.Code, c.Semester))
		}
	}

	return gaps
}

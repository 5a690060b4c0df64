package validation

import "regexp"

// Named form schemas for every create/edit dialog in the admin dashboard.
// Field paths match the multipart/JSON field names the API receives.

var (
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
	timeRegex  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var daysOfWeek = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func titleRules() []Rule {
	return []Rule{
		Required("Title is required"),
		MaxLen(100, "Title must be less than 100 characters"),
	}
}

func descriptionRules() []Rule {
	return []Rule{
		MaxLen(1000, "Description must be less than 1000 characters"),
	}
}

func thumbnailRules(required bool) []Rule {
	rules := []Rule{
		FileWellFormed(),
		FileMaxSize(MaxImageSize, "Thumbnail must be less than 5MB"),
		FileType(AllowedImageTypes, "Thumbnail must be a valid image file (PNG, JPG or GIF)"),
	}
	if required {
		rules = append(rules, FileRequired("Thumbnail is required"))
	}
	return rules
}

func videoRules(required bool) []Rule {
	rules := []Rule{
		FileWellFormed(),
		FileMaxSize(MaxVideoSize, "Video must be less than 500MB"),
		FileType(AllowedVideoTypes, "Video must be a valid video file (MP4, WebM, or OGG)"),
	}
	if required {
		rules = append(rules, FileRequired("Video file is required"))
	}
	return rules
}

// CreateCourseSchema validates the create-course dialog (thumbnail optional)
var CreateCourseSchema = &Schema{
	Name: "createCourse",
	Fields: []Field{
		{Name: "title", Rules: titleRules()},
		{Name: "description", Rules: descriptionRules()},
		{Name: "thumbnail", Rules: thumbnailRules(false)},
	},
}

// UpdateCourseSchema validates the edit-course dialog (thumbnail required)
var UpdateCourseSchema = &Schema{
	Name: "updateCourse",
	Fields: []Field{
		{Name: "courseId", Rules: []Rule{Required("Course ID is required")}},
		{Name: "title", Rules: titleRules()},
		{Name: "description", Rules: descriptionRules()},
		{Name: "thumbnail", Rules: thumbnailRules(true)},
	},
}

// AddLectureSchema validates the add-lecture dialog (video and thumbnail required)
var AddLectureSchema = &Schema{
	Name: "addLecture",
	Fields: []Field{
		{Name: "courseId", Rules: []Rule{Required("Course ID is required")}},
		{Name: "title", Rules: titleRules()},
		{Name: "description", Rules: descriptionRules()},
		{Name: "file", Rules: videoRules(true)},
		{Name: "thumbnail", Rules: thumbnailRules(true)},
	},
}

// UpdateLectureSchema validates the edit-lecture dialog (both files optional)
var UpdateLectureSchema = &Schema{
	Name: "updateLecture",
	Fields: []Field{
		{Name: "videoId", Rules: []Rule{Required("Video ID is required")}},
		{Name: "title", Rules: titleRules()},
		{Name: "file", Rules: videoRules(false)},
		{Name: "thumbnail", Rules: thumbnailRules(false)},
	},
}

// LoginSchema validates the login form
var LoginSchema = &Schema{
	Name: "login",
	Fields: []Field{
		{Name: "email", Rules: []Rule{
			Required("Email is required"),
			Email("Invalid email address"),
		}},
		{Name: "password", Rules: []Rule{
			Required("Password is required"),
			MinLen(8, "Password must be at least 8 characters long"),
			Matches(upperRegex, "Password must contain at least one uppercase letter"),
			Matches(lowerRegex, "Password must contain at least one lowercase letter"),
			Matches(digitRegex, "Password must contain at least one number"),
		}},
	},
}

// CreateCoachSchema validates the create-coach dialog
var CreateCoachSchema = &Schema{
	Name: "createCoach",
	Fields: []Field{
		{Name: "name", Rules: []Rule{
			Required("Name is required"),
			MaxLen(100, "Name must be less than 100 characters"),
		}},
		{Name: "email", Rules: []Rule{
			Required("Email is required"),
			Email("Invalid email address"),
		}},
		{Name: "bio", Rules: []Rule{
			MaxLen(1000, "Bio must be less than 1000 characters"),
		}},
		{Name: "expertise", Rules: []Rule{
			Required("Expertise level is required"),
		}},
	},
}

// UpdateCoachSchema validates the edit-coach dialog; same shape as create
// plus the coach id.
var UpdateCoachSchema = &Schema{
	Name: "updateCoach",
	Fields: append([]Field{
		{Name: "coachId", Rules: []Rule{Required("Coach ID is required")}},
	}, CreateCoachSchema.Fields...),
}

// AddSlotSchema validates a new availability slot for a coach
var AddSlotSchema = &Schema{
	Name: "addSlot",
	Fields: []Field{
		{Name: "day", Rules: []Rule{
			Required("Day is required"),
			OneOf(daysOfWeek, "Day must be a valid day of the week"),
		}},
		{Name: "start_time", Rules: []Rule{
			Required("Start time is required"),
			Matches(timeRegex, "Start time must be in HH:MM format"),
		}},
		{Name: "end_time", Rules: []Rule{
			Required("End time is required"),
			Matches(timeRegex, "End time must be in HH:MM format"),
		}},
	},
	CrossRules: []CrossRule{
		{
			Path: "end_time",
			Check: func(data FormData) bool {
				start := stringValue(data["start_time"])
				end := stringValue(data["end_time"])
				if start == "" || end == "" || !timeRegex.MatchString(start) || !timeRegex.MatchString(end) {
					// Let the field rules report format problems
					return true
				}
				return end > start
			},
			Message: "End time must be after start time",
		},
	},
}

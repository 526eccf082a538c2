package config

// chapterTable is the Class 5 Telugu reader layout used by the organize and scan workflows.
var chapterTable = []ChapterSpec{
	{ID: 6, Folder: "06_Shataka_Padyalu", Topic: "Shataka Padyalu", Lesson: PageRange{67, 70}, Exercise: PageRange{70, 74}},
	{ID: 7, Folder: "07_Sankranthi_Sandesham", Topic: "Sankranthi Sandesham", Lesson: PageRange{75, 76}, Exercise: PageRange{77, 80}},
	{ID: 8, Folder: "08_Kanuvippu", Topic: "Kanuvippu", Lesson: PageRange{81, 84}, Exercise: PageRange{84, 88}},
	{ID: 9, Folder: "09_Ramappa", Topic: "Ramappa", Lesson: PageRange{89, 92}, Exercise: PageRange{92, 96}},
	{ID: 10, Folder: "10_Shibi_Chakravarti", Topic: "Shibi Chakravarti", Lesson: PageRange{97, 99}, Exercise: PageRange{100, 104}},
}

// ChapterTable returns a copy of the static chapter range table in listing order.
func ChapterTable() []ChapterSpec {
	out := make([]ChapterSpec, len(chapterTable))
	copy(out, chapterTable)
	return out
}

// Lookup finds a table entry by folder name.
func Lookup(folder string) (ChapterSpec, bool) {
	for _, c := range chapterTable {
		if c.Folder == folder {
			return c, true
		}
	}
	return ChapterSpec{}, false
}

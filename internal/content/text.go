// Package content holds the CV text shown on the portfolio page and by the
// terminal commands.
package content

var (
	Summary = `Team Leader with extensive experience in e-commerce platforms, mobile development,
and modern web technologies. Proven track record in leading high-performing development
teams with strong technical background in .NET, React, Angular, and e-commerce platforms.`

	AboutMe = `I enjoy building products that people actually use, and I care as much about the
team that ships them as about the code itself. Most of my career has been spent on
e-commerce platforms, from CMS internals to B2B storefronts, leading teams across
Stockholm and Hanoi.`
)

type Identity struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	Summary   string   `json:"summary"`
	Education []string `json:"education"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tech        string `json:"tech"`
	Link        string `json:"link,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type SkillCategory struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

type Role struct {
	Company          string   `json:"company"`
	Title            string   `json:"title"`
	Period           string   `json:"period"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
	Tech             string   `json:"tech"`
}

type Contact struct {
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	Location string `json:"location"`
}

// Profile bundles everything the page and the terminal render.
type Profile struct {
	Identity   Identity        `json:"identity"`
	About      string          `json:"about"`
	Projects   []Project       `json:"projects"`
	Skills     []SkillCategory `json:"skills"`
	Experience []Role          `json:"experience"`
	Contact    Contact         `json:"contact"`
}

// Default returns the built-in profile.
func Default() Profile {
	return Profile{
		Identity: Identity{
			Name:     "Ton Nguyen",
			Role:     "Team Leader",
			Company:  "Litium",
			Location: "Stockholm, Sweden",
			Summary:  Summary,
			Education: []string{
				"BSc in Computing - University of Greenwich (2009-2010)",
				"Higher Diploma in Software Engineering - FPT-Aptech (2004-2007)",
			},
		},
		About: AboutMe,
		Projects: []Project{
			{
				Name:        "litium-platform",
				Description: "Cloud-based e-commerce, PIM, and digital marketing platform",
				Tech:        "Litium, .NET, React, NextJS, Angular, Elastic Search",
				Link:        "https://www.litium.com",
			},
			{
				Name:        "episerver-commerce",
				Description: "Advanced e-commerce platform integrated with EPiServer CMS",
				Tech:        "EPiServer, .NET, MVC, SQL Server",
			},
			{
				Name:        "quicksilver-template",
				Description: "Sample template showcasing EPiServer Commerce best practices",
				Tech:        "MVC, EPiServer, jQuery, LESS",
			},
			{
				Name:        "effective-dose-calculator",
				Description: "Web-based system for radiographic dose calculations",
				Tech:        "Java, Spring, Hibernate, MySQL",
			},
			{
				Name:        "caia-flashcard-app",
				Description: "Cross-platform FlashCard app for CAIA exam preparation",
				Tech:        ".NET, J2ME, BlackBerry SDK, SQL Server",
			},
			{
				Name:        "border-gate-control",
				Description: "Border control system for Ministry of Defense of Vietnam",
				Tech:        "Java, Servlet, Oracle, Windows Service",
			},
		},
		Skills: []SkillCategory{
			{Name: "Programming Languages", Skills: []Skill{
				{"C#", "Expert"}, {"JavaScript", "Expert"}, {"Java", "Advanced"},
			}},
			{Name: "Web Technologies", Skills: []Skill{
				{".NET", "Expert"}, {"React", "Expert"}, {"Angular", "Expert"}, {"NextJS", "Advanced"},
			}},
			{Name: "Mobile Development", Skills: []Skill{
				{"React Native", "Advanced"}, {"Android", "Advanced"}, {"Expo", "Intermediate"},
			}},
			{Name: "E-commerce & CMS", Skills: []Skill{
				{"Litium", "Expert"}, {"EPiServer Commerce", "Expert"}, {"EPiServer CMS", "Expert"},
			}},
			{Name: "Databases & Search", Skills: []Skill{
				{"SQL Server", "Advanced"}, {"Elastic Search", "Advanced"}, {"Oracle", "Intermediate"}, {"MySQL", "Intermediate"},
			}},
		},
		Experience: []Role{
			{
				Company:  "Litium",
				Title:    "Team Leader",
				Period:   "Dec 2016 - Present",
				Location: "Stockholm, Sweden",
				Responsibilities: []string{
					"Lead and mentor cross-functional development team",
					"Drive delivery of scalable e-commerce platform for B2B and B2C customers",
					"Collaborate with Product Managers, UX, and teams across locations",
					"Coach and support professional growth of team members",
				},
				Tech: "Litium, .NET, SQL Server, React, NextJS, Angular, Elastic Search",
			},
			{
				Company:  "EPiServer",
				Title:    "Team Leader - Commerce",
				Period:   "Feb 2012 - Mar 2016",
				Location: "Hanoi, Vietnam",
				Responsibilities: []string{
					"Led Commerce development team for EPiServer Commerce platform",
					"Managed Hanoi team and coordinated with Stockholm headquarters",
					"Contributed to technology and solution decisions",
					"Oversaw resource management and project planning",
				},
				Tech: "EPiServer CMS, EPiServer Commerce, SQL Server, jQuery, LESS, Dojo",
			},
			{
				Company:  "EPiServer",
				Title:    "Senior Developer",
				Period:   "Jun 2009 - Feb 2012",
				Location: "Hanoi, Vietnam",
				Responsibilities: []string{
					"Developed and maintained EPiServer CMS platform",
					"Collaborated with Stockholm-based developers on CMS 7",
					"Enhanced developer and editor experiences",
					"Contributed to CMS 6.x maintenance and new features",
				},
				Tech: "EPiServer CMS, SQL Server, jQuery, Dojo",
			},
			{
				Company:  "Freelance",
				Title:    "Mobile Developer",
				Period:   "2007 - 2009",
				Location: "Vietnam",
				Responsibilities: []string{
					"Designed cross-platform mobile applications",
					"Published apps on Android, iOS, and BlackBerry platforms",
					"Managed full app lifecycle from concept to deployment",
				},
				Tech: "Java, Xamarin, Cordova, BlackBerry SDK",
			},
		},
		Contact: Contact{
			GitHub:   "github.com/tonnguyen",
			LinkedIn: "linkedin.com/in/tonnguyen",
			Website:  "tonnguyen.github.io",
			Location: "Stockholm, Sweden",
		},
	}
}

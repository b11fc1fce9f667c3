package handlers

import (
	"html/template"
	"net/http"

	"github.com/csg33k/training-portal/internal/domain"
	"github.com/csg33k/training-portal/internal/session"
)

// Views are inlined as html/template blocks: one base layout plus a body per
// page, cloned together at init. The backend owns all the data these render;
// nothing here mutates state.

type viewData struct {
	Title    string
	Employee *domain.Employee
	Flashes  []session.Flash
	Data     any
}

// render pops pending flashes (which touches the session cookie, so it must
// happen before the body is written) and executes the page template.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	vd := viewData{
		Title:    title,
		Employee: domain.EmployeeFrom(r.Context()),
		Flashes:  h.sessions.Flashes(w, r),
		Data:     data,
	}
	if vd.Employee == nil {
		vd.Employee = h.sessions.Current(r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views[page].ExecuteTemplate(w, "base", vd); err != nil {
		h.log.Error("render failed", "page", page, "err", err)
	}
}

var baseTmpl = template.Must(template.New("base").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} · Training Portal</title>
<style>
  :root {
    --ink: #1b2430;
    --paper: #f6f7f9;
    --accent: #2c6e49;
    --danger: #c0392b;
    --muted: #6b7280;
    --rule: #d7dbe0;
  }
  * { box-sizing: border-box; }
  body {
    margin: 0;
    background: var(--paper);
    color: var(--ink);
    font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  }
  nav {
    background: var(--ink);
    color: #fff;
    padding: 10px 24px;
    display: flex;
    gap: 18px;
    align-items: center;
  }
  nav a { color: #e5e7eb; text-decoration: none; font-size: 0.9rem; }
  nav a:hover { color: #fff; }
  nav .brand { font-weight: 600; letter-spacing: 0.05em; margin-right: 12px; }
  nav .who { margin-left: auto; color: #9ca3af; font-size: 0.85rem; }
  main { max-width: 960px; margin: 24px auto; padding: 0 16px; }
  h1 { font-size: 1.4rem; }
  .flash { padding: 10px 14px; border-radius: 4px; margin-bottom: 10px; font-size: 0.9rem; }
  .flash.success { background: #dcf2e3; color: var(--accent); }
  .flash.danger { background: #f8dcd7; color: var(--danger); }
  .flash.info { background: #e0e7ef; color: var(--ink); }
  table { border-collapse: collapse; width: 100%; background: #fff; }
  th, td { border: 1px solid var(--rule); padding: 8px 10px; text-align: left; font-size: 0.9rem; }
  th { background: #eef0f3; }
  form.inline { display: inline; }
  .card {
    background: #fff;
    border: 1px solid var(--rule);
    border-left: 4px solid var(--accent);
    padding: 14px 16px;
    margin-bottom: 14px;
  }
  label { display: block; font-size: 0.75rem; color: var(--muted); text-transform: uppercase; margin: 8px 0 2px; }
  input, select, textarea { width: 100%; padding: 6px 8px; border: 1px solid var(--rule); border-radius: 3px; }
  button {
    background: var(--accent); color: #fff; border: none; border-radius: 3px;
    padding: 8px 14px; margin-top: 10px; cursor: pointer; font-size: 0.85rem;
  }
  button.danger { background: var(--danger); }
  .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 0 16px; }
  .progress { background: var(--rule); border-radius: 3px; height: 8px; width: 120px; }
  .progress span { display: block; background: var(--accent); height: 8px; border-radius: 3px; }
</style>
</head>
<body>
<nav>
  <span class="brand">TRAINING PORTAL</span>
  {{if .Employee}}
    {{if .Employee.Admin}}
      <a href="/admin-dashboard">Dashboard</a>
      <a href="/manage_employees">Employees</a>
      <a href="/manage-courses">Courses</a>
      <a href="/admin/enrollments">Enrollments</a>
      <a href="/admin/certificates">Certificates</a>
    {{else}}
      <a href="/dashboard">Dashboard</a>
      <a href="/courses">Courses</a>
      <a href="/employee/profile">Profile</a>
    {{end}}
    <span class="who">{{.Employee.FullName}}</span>
    <a href="/logout">Logout</a>
  {{else}}
    <a href="/login">Login</a>
    <a href="/register">Register</a>
  {{end}}
</nav>
<main>
  {{range .Flashes}}<div class="flash {{.Level}}">{{.Message}}</div>{{end}}
  {{block "content" .}}{{end}}
</main>
</body>
</html>`))

var views = func() map[string]*template.Template {
	m := make(map[string]*template.Template, len(pageBodies))
	for name, body := range pageBodies {
		m[name] = template.Must(template.Must(baseTmpl.Clone()).Parse(body))
	}
	return m
}()

var pageBodies = map[string]string{
	"index": `{{define "content"}}
<div class="card">
  <h1>Employee Training Portal</h1>
  <p>Browse your department's courses, track your progress, and collect completion certificates.</p>
  <p><a href="/login">Log in</a> or <a href="/register">create an account</a> to get started.</p>
</div>
{{end}}`,

	"register": `{{define "content"}}
<h1>Create your account</h1>
<div class="card">
<form method="POST" action="/register">
  <div class="grid">
    <div><label>First name</label><input name="first_name" required></div>
    <div><label>Last name</label><input name="last_name" required></div>
    <div><label>Email</label><input type="email" name="email" required></div>
    <div><label>Phone</label><input name="phone"></div>
    <div><label>Position</label><input name="position"></div>
    <div><label>Department</label><input name="department" required></div>
    <div><label>Hire date</label><input type="date" name="hire_date" required></div>
    <div><label>Gender</label>
      <select name="gender"><option>Male</option><option>Female</option><option>Other</option></select>
    </div>
  </div>
  <button type="submit">Register</button>
</form>
</div>
{{end}}`,

	"login": `{{define "content"}}
<h1>Log in</h1>
<div class="card">
<form method="POST" action="/login">
  <label>Email</label><input type="email" name="email" required>
  <label>Hire date</label><input type="date" name="hire_date" required>
  <button type="submit">Log in</button>
</form>
</div>
{{end}}`,

	"dashboard": `{{define "content"}}
<h1>My Courses</h1>
{{if .Data.MyCourses}}
<table>
  <tr><th>Course</th><th>Status</th><th>Progress</th><th></th></tr>
  {{range .Data.MyCourses}}
  <tr>
    <td>{{.Course.Title}}</td>
    <td>{{.Status}}</td>
    <td><div class="progress"><span style="width:{{.Progress}}%"></span></div></td>
    <td><a href="/course/{{.Course.ID}}/take">Take course</a></td>
  </tr>
  {{end}}
</table>
{{else}}
<p>You are not enrolled in any course yet. <a href="/courses">Browse courses</a>.</p>
{{end}}
<h1>My Certificates</h1>
{{if .Data.Certificates}}
<table>
  <tr><th>Certificate</th><th>Course</th><th>Issued on</th><th>Expires</th></tr>
  {{range .Data.Certificates}}
  <tr><td>{{.Name}}</td><td>{{.Course.Title}}</td><td>{{.IssuedOn}}</td><td>{{.ExpiryDate}}</td></tr>
  {{end}}
</table>
{{else}}
<p>No certificates yet.</p>
{{end}}
{{end}}`,

	"admin_dashboard": `{{define "content"}}
<h1>Employees &amp; Enrollments</h1>
<table>
  <tr><th>Employee</th><th>Department</th><th>Courses</th><th></th></tr>
  {{range .Data}}
  <tr>
    <td>{{.Employee.FullName}}</td>
    <td>{{.Employee.Department}}</td>
    <td>
      {{range .Courses}}{{.Course.Title}} ({{.Status}})<br>{{end}}
    </td>
    <td>
      {{range .Courses}}
      <form class="inline" method="POST" action="/unenroll/{{.EnrollmentID}}">
        <button class="danger" type="submit">Unenroll</button>
      </form>
      {{end}}
    </td>
  </tr>
  {{end}}
</table>
{{end}}`,

	"profile": `{{define "content"}}
<h1>My Profile</h1>
<div class="card">
<form method="POST" action="/employee/profile">
  <div class="grid">
    <div><label>First name</label><input name="first_name" value="{{.Data.FirstName}}"></div>
    <div><label>Last name</label><input name="last_name" value="{{.Data.LastName}}"></div>
    <div><label>Email</label><input type="email" name="email" value="{{.Data.Email}}"></div>
    <div><label>Phone</label><input name="phone" value="{{.Data.Phone}}"></div>
    <div><label>Position</label><input name="position" value="{{.Data.Position}}"></div>
    <div><label>Department</label><input name="department" value="{{.Data.Department}}"></div>
    <div><label>Hire date</label><input type="date" name="hire_date" value="{{.Data.HireDate}}"></div>
    <div><label>Gender</label><input name="gender" value="{{.Data.Gender}}"></div>
  </div>
  <button type="submit">Save</button>
</form>
</div>
{{end}}`,

	"manage_employees": `{{define "content"}}
<h1>Manage Employees</h1>
<div class="card">
<h3>Add employee</h3>
<form method="POST" action="/admin/create-employee">
  <div class="grid">
    <div><label>First name</label><input name="first_name" required></div>
    <div><label>Last name</label><input name="last_name" required></div>
    <div><label>Email</label><input type="email" name="email" required></div>
    <div><label>Phone</label><input name="phone"></div>
    <div><label>Position</label><input name="position"></div>
    <div><label>Department</label><input name="department" required></div>
    <div><label>Hire date</label><input type="date" name="hire_date" required></div>
    <div><label>Gender</label><input name="gender"></div>
  </div>
  <button type="submit">Create</button>
</form>
</div>
<table>
  <tr><th>Name</th><th>Email</th><th>Department</th><th>Position</th><th></th></tr>
  {{range .Data.Employees}}
  <tr>
    <td>{{.FullName}}</td>
    <td>{{.Email}}</td>
    <td>{{.Department}}</td>
    <td>{{.Position}}</td>
    <td>
      <form class="inline" method="POST" action="/employee/delete/{{.ID}}">
        <button class="danger" type="submit">Delete</button>
      </form>
    </td>
  </tr>
  {{end}}
</table>
{{end}}`,

	"courses": `{{define "content"}}
<h1>Courses for your department</h1>
{{range .Data}}
<div class="card">
  <h3>{{.Course.Title}} <small>({{.Course.Level}})</small></h3>
  <p>{{.Course.Description}}</p>
  <p>{{.Course.DurationMinutes}} min · {{.Course.StartDate}} – {{.Course.EndDate}}</p>
  {{if .Enrollment}}
    <a href="/course/{{.Course.ID}}/take">Continue ({{.Enrollment.Progress}}%)</a>
  {{else}}
    <form class="inline" method="POST" action="/courses">
      <input type="hidden" name="course_id" value="{{.Course.ID}}">
      <button type="submit">Enroll</button>
    </form>
  {{end}}
</div>
{{else}}
<p>No courses available for your department yet.</p>
{{end}}
{{end}}`,

	"take_course": `{{define "content"}}
<h1>{{.Data.Course.Title}}</h1>
<div class="card">
  <p>{{.Data.Course.Description}}</p>
  {{if .Data.Course.YoutubeURL}}<p><a href="{{.Data.Course.YoutubeURL}}">Watch the course video</a></p>{{end}}
  <p>Progress: {{.Data.Enrollment.Progress}}%</p>
  <div class="progress"><span style="width:{{.Data.Enrollment.Progress}}%"></span></div>
  <form method="POST" action="/mark-completed/{{.Data.Course.ID}}">
    <button type="submit">Mark completed</button>
  </form>
</div>
<script>
  // Report watch progress in 10% steps as the learner advances.
  function reportProgress(p) {
    fetch("/update-progress/{{.Data.Course.ID}}", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({progress: p})
    });
  }
</script>
{{end}}`,

	"manage_courses": `{{define "content"}}
<h1>Manage Courses</h1>
<div class="card">
<h3>Create course</h3>
<form method="POST" action="/manage-courses">
  <div class="grid">
    <div><label>Title</label><input name="title" required></div>
    <div><label>Level</label>
      <select name="level"><option>Beginner</option><option>Intermediate</option><option>Advanced</option></select>
    </div>
    <div><label>Duration (minutes)</label><input type="number" name="duration" required></div>
    <div><label>Capacity</label><input type="number" name="capacity" required></div>
    <div><label>Department</label><input name="department"></div>
    <div><label>Video URL</label><input name="youtube_url"></div>
    <div><label>Start date</label><input type="date" name="start_date"></div>
    <div><label>End date</label><input type="date" name="end_date"></div>
  </div>
  <label>Description</label><textarea name="description" rows="3"></textarea>
  <button type="submit">Create</button>
</form>
</div>
<table>
  <tr><th>Title</th><th>Level</th><th>Department</th><th>Dates</th><th></th></tr>
  {{range .Data}}
  <tr>
    <td>{{.Title}}</td>
    <td>{{.Level}}</td>
    <td>{{.Department}}</td>
    <td>{{.StartDate}} – {{.EndDate}}</td>
    <td>
      <form class="inline" method="POST" action="/course/delete/{{.ID}}">
        <button class="danger" type="submit">Delete</button>
      </form>
    </td>
  </tr>
  {{end}}
</table>
{{end}}`,

	"admin_enrollments": `{{define "content"}}
<h1>Enrollments</h1>
<table>
  <tr><th>Employee</th><th>Course</th><th>Status</th><th>Progress</th><th></th></tr>
  {{range .Data}}
  <tr>
    <td>{{.Employee.FullName}}</td>
    <td>{{.Course.Title}}</td>
    <td>{{.Status}}</td>
    <td>{{.Progress}}%</td>
    <td>
      <form class="inline" method="POST" action="/unenroll/{{.ID}}">
        <button class="danger" type="submit">Unenroll</button>
      </form>
    </td>
  </tr>
  {{end}}
</table>
{{end}}`,

	"admin_certificates": `{{define "content"}}
<h1>Certificates</h1>
<div class="card">
<h3>Issue certificate</h3>
<form method="POST" action="/admin/certificates/create" enctype="multipart/form-data">
  <div class="grid">
    <div><label>Name</label><input name="name" required></div>
    <div><label>Course</label>
      <select name="course_id" required>
        {{range .Data.Courses}}<option value="{{.ID}}">{{.Title}}</option>{{end}}
      </select>
    </div>
    <div><label>Issued on</label><input type="date" name="issued_on" required></div>
    <div><label>Expiry date</label><input type="date" name="expiry_date" required></div>
    <div><label>Employee ID</label><input name="employee_id"></div>
    <div><label>Logo (optional)</label><input type="file" name="logo" accept="image/*"></div>
  </div>
  <label>Description</label><textarea name="description" rows="3" required></textarea>
  <button type="submit">Generate &amp; issue</button>
</form>
</div>
<table>
  <tr><th>Name</th><th>Course</th><th>Issued on</th><th>Expires</th><th></th></tr>
  {{range .Data.Certificates}}
  <tr>
    <td>{{.Name}}</td>
    <td>{{.Course.Title}}</td>
    <td>{{.IssuedOn}}</td>
    <td>{{.ExpiryDate}}</td>
    <td>
      <form class="inline" method="POST" action="/certificate/delete/{{.ID}}">
        <button class="danger" type="submit">Delete</button>
      </form>
    </td>
  </tr>
  {{end}}
</table>
{{end}}`,
}

package web

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Task Manager</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
        .task-input { display: flex; gap: .5rem; margin-bottom: 1rem; }
        .task-input input { flex: 1; padding: .4rem; }
        .task-list { list-style: none; padding: 0; }
        .task-item { display: flex; align-items: center; justify-content: space-between; padding: .3rem 0; border-bottom: 1px solid #eee; }
        .task-item form { margin: 0; }
        .task-title { background: none; border: none; cursor: pointer; font: inherit; text-align: left; padding: 0; }
        .task-title.completed { text-decoration: line-through; color: #888; }
        .delete-button { color: #b00; }
    </style>
</head>
<body>
<div class="task-manager">
    <h1>Task Manager</h1>
    <p class="user-welcome">Welcome, {{.User}}</p>
    <form class="task-input" method="post" action="/tasks" id="add-form">
        <input type="text" name="title" placeholder="Add new task" autofocus>
        <button type="submit">Add Task</button>
    </form>
    <ul class="task-list" id="task-list">
        {{- range $i, $t := .Tasks}}
        <li class="task-item">
            <form method="post" action="/tasks/{{$i}}/toggle">
                <button type="submit" class="task-title{{if $t.Completed}} completed{{end}}">{{$t.Title}}</button>
            </form>
            <form method="post" action="/tasks/{{$i}}/delete">
                <button type="submit" class="delete-button">Delete</button>
            </form>
        </li>
        {{- end}}
    </ul>
    <div class="task-stats">
        <p>Total Tasks: <span id="total">{{.Counts.Total}}</span></p>
        <p>Completed Tasks: <span id="completed">{{.Counts.Completed}}</span></p>
    </div>
</div>
<script>
(function () {
    var list = document.getElementById("task-list");
    var total = document.getElementById("total");
    var completed = document.getElementById("completed");

    function post(action) {
        return fetch("/api/actions", {
            method: "POST",
            headers: {"Content-Type": "application/json"},
            body: JSON.stringify(action)
        }).then(function (r) { return r.json(); }).then(render);
    }

    function button(text, cls, onClick) {
        var b = document.createElement("button");
        b.type = "button";
        b.className = cls;
        b.textContent = text;
        b.addEventListener("click", onClick);
        return b;
    }

    function render(snap) {
        list.replaceChildren();
        (snap.tasks || []).forEach(function (task, index) {
            var li = document.createElement("li");
            li.className = "task-item";
            li.appendChild(button(task.title, "task-title" + (task.completed ? " completed" : ""), function () {
                post({type: "TOGGLE_TASK", index: index});
            }));
            li.appendChild(button("Delete", "delete-button", function () {
                post({type: "DELETE_TASK", index: index});
            }));
            list.appendChild(li);
        });
        total.textContent = snap.counts.total;
        completed.textContent = snap.counts.completed;
    }

    var form = document.getElementById("add-form");
    form.addEventListener("submit", function (e) {
        e.preventDefault();
        var input = form.elements.title;
        var title = input.value;
        if (title) {
            post({type: "ADD_TASK", title: title});
            input.value = "";
        }
        input.focus();
    });

    if (!window.WebSocket) { return; }
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (e) {
        var msg = JSON.parse(e.data);
        if (msg.type === "snapshot") { render(msg.data); }
    };
})();
</script>
</body>
</html>
`

// /home/krylon/go/src/github.com/blicero/iris/backend/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-06 17:09:53 krylon>

package backend

import (
	"fmt"
	"net/http"

	"github.com/blicero/iris/objects"
	"github.com/gorilla/mux"
	"github.com/pquerna/ffjson/ffjson"
)

func (d *Daemon) initWebHandlers() error {
	d.router.HandleFunc("/notification/add", d.handleNotificationAdd)
	d.router.HandleFunc("/notification/pending", d.handleNotificationGetPending)
	d.router.HandleFunc("/notification/all", d.handleNotificationGetAll)
	d.router.HandleFunc("/notification/cancel", d.handleNotificationCancel)
	d.router.HandleFunc("/notification/entity/{entity}/cancel", d.handleNotificationCancelEntity)
	d.router.HandleFunc("/notification/cancel_all", d.handleNotificationCancelAll)
	d.router.HandleFunc("/notification/tap", d.handleNotificationTap)

	return nil
} // func (d *Daemon) initWebHandlers() error

func (d *Daemon) serveHTTP() {
	var err error

	defer d.log.Println("[INFO] Web server is shutting down")

	d.log.Printf("[INFO] Web interface is going online at %s\n", d.web.Addr)

	if err = d.web.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			d.log.Printf("[ERROR] ListenAndServe returned an error: %s\n",
				err.Error())
		} else {
			d.log.Println("[INFO] HTTP Server has shut down.")
		}
	}
} // func (d *Daemon) serveHTTP()

func (d *Daemon) handleNotificationAdd(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err       error
		id        int64
		nstr, msg string
		note      objects.Notification
		response  = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		d.log.Printf("[ERROR] Cannot parse form data: %s\n",
			err.Error())
		response.Message = err.Error()
		goto SEND_RESPONSE
	}

	nstr = r.PostFormValue("notification")

	if err = ffjson.Unmarshal([]byte(nstr), &note); err != nil {
		msg = fmt.Sprintf("Cannot parse Notification %q: %s",
			nstr,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	if id, err = d.NotificationSubmit(&note); err != nil {
		msg = fmt.Sprintf("Cannot submit Notification %q: %s",
			note.Title,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	response.Message = fmt.Sprintf("%d", id)
	response.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationAdd(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleNotificationGetPending(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		msg      string
		buf      []byte
		response = objects.Response{ID: d.getID()}
	)

	if buf, err = ffjson.Marshal(d.Pending()); err != nil {
		msg = fmt.Sprintf("Cannot serialize pending Notifications: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_ERROR
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
	return

SEND_ERROR:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationGetPending(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleNotificationGetAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		msg      string
		notes    []objects.Notification
		buf      []byte
		response = objects.Response{ID: d.getID()}
	)

	var db = d.pool.Get()
	defer d.pool.Put(db)

	if notes, err = db.NotificationGetAll(); err != nil {
		msg = fmt.Sprintf("Cannot load journal: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_ERROR
	} else if buf, err = ffjson.Marshal(notes); err != nil {
		msg = fmt.Sprintf("Cannot serialize journal: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_ERROR
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
	return

SEND_ERROR:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationGetAll(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleNotificationCancel(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err                  error
		entity, purpose, msg string
		response             = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	entity = r.FormValue("entity")
	purpose = r.FormValue("purpose")

	if entity == "" {
		msg = "Parameter entity must not be empty"
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	if purpose == "" {
		purpose = "default"
	}

	if err = d.NotificationCancel(entity, purpose); err != nil {
		msg = fmt.Sprintf("Cannot cancel Notification (%s, %s): %s",
			entity,
			purpose,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	response.Message = fmt.Sprintf("Notification (%s, %s) was cancelled",
		entity,
		purpose)
	response.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationCancel(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleNotificationCancelEntity(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err         error
		vars        map[string]string
		entity, msg string
		response    = objects.Response{ID: d.getID()}
	)

	vars = mux.Vars(r)

	if entity = vars["entity"]; entity == "" {
		msg = "Parameter entity must not be empty"
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	if err = d.NotificationCancelEntity(entity); err != nil {
		msg = fmt.Sprintf("Cannot cancel Notifications for %s: %s",
			entity,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	response.Message = fmt.Sprintf("All Notifications for %s were cancelled",
		entity)
	response.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationCancelEntity(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleNotificationCancelAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		msg      string
		response = objects.Response{ID: d.getID()}
	)

	if err = d.NotificationCancelAll(); err != nil {
		msg = fmt.Sprintf("Cannot cancel all Notifications: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	response.Message = "All Notifications were cancelled"
	response.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationCancelAll(w http.ResponseWriter, r *http.Request)

// handleNotificationTap lets clients inject an activation payload, mainly
// so the dispatch path can be exercised end-to-end without a desktop
// session. Dispatch is total, so this handler always reports success.
func (d *Daemon) handleNotificationTap(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		response = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		d.log.Printf("[ERROR] Cannot parse form data: %s\n",
			err.Error())
		response.Message = err.Error()
		goto SEND_RESPONSE
	}

	d.OnTap(r.PostFormValue("payload"))

	response.Message = "OK"
	response.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleNotificationTap(w http.ResponseWriter, r *http.Request)

//////////////////////////////////////////////////////////////////////////////////////////////////
/// Helpers //////////////////////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////////////////////////

func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response) {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(res); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Response object %#v: %s\n",
			res,
			err.Error())
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response)

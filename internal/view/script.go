package view

// pageScript поведение страницы в браузере. Состояние живёт на сервере: скрипт только
// подменяет фрагменты и сообщает серверу о показе и закрытии окон.
const pageScript = `(function () {
  'use strict';
  var debounceMs = 300;
  var noticeMs = 3000;

  function post(url) {
    return fetch(url, {method: 'POST', credentials: 'same-origin', headers: {'X-Requested-With': 'fetch'}});
  }

  function swap(id, html, outer) {
    var el = document.getElementById(id);
    if (!el) { return; }
    if (outer) { el.outerHTML = html; } else { el.innerHTML = html; }
  }

  function loadSection(name, query) {
    var url = '/dashboard/sections/' + encodeURIComponent(name) + (query ? '?' + query : '');
    return fetch(url, {credentials: 'same-origin'}).then(function (resp) {
      if (resp.status === 204 || !resp.ok) { return; }
      return resp.text().then(function (html) {
        swap('dashboard-body', html, true);
        history.replaceState(null, '', '/dashboard/?section=' + encodeURIComponent(name));
      });
    });
  }

  function showModal(name) {
    var m = document.getElementById(name);
    if (m) { m.classList.add('show'); }
    post('/ui/modals/' + encodeURIComponent(name) + '/show');
  }

  function closeModal(name) {
    var m = document.getElementById(name);
    if (m) { m.classList.remove('show'); }
    post('/ui/modals/' + encodeURIComponent(name) + '/close');
  }

  function debounce(fn) {
    var t;
    return function () {
      var args = arguments;
      clearTimeout(t);
      t = setTimeout(function () { fn.apply(null, args); }, debounceMs);
    };
  }

  var onDashboard = document.body.getAttribute('data-page') === 'dashboard';

  document.addEventListener('click', function (e) {
    var target = e.target;
    if (target.classList && target.classList.contains('modal')) {
      target.classList.remove('show');
      post('/ui/modals/' + encodeURIComponent(target.id) + '/backdrop');
      return;
    }
    var open = target.closest('[data-modal-open]');
    if (open) {
      e.preventDefault();
      document.querySelectorAll('.modal.show').forEach(function (m) { m.classList.remove('show'); });
      showModal(open.getAttribute('data-modal-open'));
      return;
    }
    var close = target.closest('[data-modal-close]');
    if (close) {
      e.preventDefault();
      closeModal(close.getAttribute('data-modal-close'));
      return;
    }
    var section = target.closest('[data-section]');
    if (section && onDashboard) {
      e.preventDefault();
      loadSection(section.getAttribute('data-section'));
    }
  });

  document.addEventListener('keydown', function (e) {
    if (e.key !== 'Escape') { return; }
    document.querySelectorAll('.modal.show').forEach(function (m) { m.classList.remove('show'); });
    post('/ui/keys/Escape');
  });

  document.addEventListener('change', function (e) {
    if (e.target.id !== 'job-type') { return; }
    var hourly = e.target.value === 'hourly';
    var budget = document.getElementById('budget-fields');
    var rate = document.getElementById('hourly-fields');
    if (budget) { budget.style.display = hourly ? 'none' : 'flex'; }
    if (rate) { rate.style.display = hourly ? 'flex' : 'none'; }
  });

  document.addEventListener('submit', function (e) {
    var form = e.target;
    if (form.hasAttribute('data-section-filter')) {
      e.preventDefault();
      loadSection(form.getAttribute('data-section-filter'), new URLSearchParams(new FormData(form)).toString());
      return;
    }
    if (!form.hasAttribute('data-form')) { return; }
    form.querySelectorAll('[data-submit]').forEach(function (b) { b.disabled = true; });
  });

  var search = document.getElementById('job-search-form');
  if (search) {
    var runSearch = debounce(function () {
      var qs = new URLSearchParams(new FormData(search)).toString();
      fetch('/search?' + qs, {credentials: 'same-origin'}).then(function (resp) {
        if (resp.status === 204) { return; }
        return resp.text().then(function (html) { swap('jobs-container', html, false); });
      }).catch(function () {
        swap('jobs-container', '<div class="loading">Search failed</div>', false);
      });
    });
    search.addEventListener('input', runSearch);
    search.addEventListener('change', runSearch);
    search.addEventListener('submit', function (e) { e.preventDefault(); runSearch(); });
  }

  document.addEventListener('input', debounce(function (e) {
    var form = e.target.form;
    if (form && form.hasAttribute('data-section-filter')) {
      loadSection(form.getAttribute('data-section-filter'), new URLSearchParams(new FormData(form)).toString());
    }
  }));

  setTimeout(function () {
    document.querySelectorAll('[data-notice]').forEach(function (n) { n.remove(); });
  }, noticeMs);
})();
`

package scraper

// Markup fixtures shaped like the portal's rendered dashboard. Selectors in
// config.DefaultSelectors must keep matching these, or the fixtures have
// drifted along with the portal.

const coursesViewHTML = `
<div data-region="courses-view" data-display="summary">
  <div class="course-summaryitem card">
    <div class="row">
      <div class="col-md-3"><div class="courseimage"></div></div>
      <div class="col-md-9">
        <a class="aalink coursename" href="https://learning.devinci.fr/course/view.php?id=101">
          Advanced Algorithms
        </a>
        <span class="categoryname">Computer Science</span>
        <div class="summary">Graphs, flows and approximation schemes.</div>
        <div class="progress-text"><span class="percent">45%</span> terminé</div>
      </div>
    </div>
  </div>
  <div class="course-summaryitem card">
    <div class="row">
      <div class="col-md-3"></div>
      <div class="col-md-9">
        <a class="aalink coursename" href="https://learning.devinci.fr/course/view.php?id=102">
          Compilers
        </a>
      </div>
    </div>
  </div>
  <div class="course-summaryitem separator">
    <div class="row">
      <div class="col-md-9">
        <span class="categoryname">Not a course, just a header row</span>
      </div>
    </div>
  </div>
</div>`

const coursesViewEmptyHTML = `
<div data-region="courses-view" data-display="summary">
  <div class="empty-state">Nothing to show</div>
</div>`

const timelineListHTML = `
<div data-region="event-list-container">
  <div class="event-list-content">
    <div class="list-group">
      <div class="list-group-item timeline-event-list-item">
        <div class="event-name-container">
          <h6 class="event-name"><a href="https://learning.devinci.fr/mod/quiz/view.php?id=77">Quiz 1</a></h6>
        </div>
        <small class="text-right">23:59</small>
      </div>
    </div>
    <div data-region="event-list-content-date">
      <h5>Friday, 12 September 2026</h5>
    </div>
    <div class="list-group">
      <div class="list-group-item timeline-event-list-item">
        <div class="event-name-container">
          <h6 class="event-name"><a href="https://learning.devinci.fr/mod/assign/view.php?id=78">Lab report</a></h6>
        </div>
        <small class="text-right">17:00</small>
      </div>
      <div class="list-group-item timeline-event-list-item">
        <div class="event-name-container">
          <h6 class="no-link">Orphan row without a link</h6>
        </div>
      </div>
    </div>
  </div>
</div>`

const timelineListEmptyHTML = `
<div data-region="event-list-container">
  <div class="event-list-content"></div>
</div>`
